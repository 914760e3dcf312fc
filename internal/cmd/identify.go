package cmd

import (
	"github.com/Digital-Shane/kinopoisk-meta/internal/core"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/local"
	"github.com/Digital-Shane/kinopoisk-meta/internal/render"
	"github.com/spf13/cobra"
)

var (
	detectOnly      bool
	identifyWorkers int
)

var identifyCmd = &cobra.Command{
	Use:   "identify <path>...",
	Short: "Identify local media files or folders",
	Long: `Detect what a media file or folder is from its path and look it up.

A kp123 or kp-123 tag anywhere in the path selects the title directly.
Otherwise the name and year are taken from the file or folder name; episodes
and seasons are matched inside the series found from their parent folders.`,
	Example: `  kinopoisk-meta identify "Зеленая миля (1999).mkv"
  kinopoisk-meta identify "/tv/Друзья kp77044/Сезон 1/Friends.S01E24.mkv"
  kinopoisk-meta identify --detect-only /movies/*`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	resolver := local.NewResolver(a.logger)

	if detectOnly {
		for _, path := range args {
			d, err := resolver.Detect(path)
			if err != nil {
				a.out.Notice(render.BadgeError, "skip", err.Error())
				continue
			}
			a.out.Detection(d)
		}
		return nil
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	engine := core.NewEngine(core.Config{
		Resolver:    resolver,
		Service:     svc,
		Logger:      a.logger,
		WorkerCount: identifyWorkers,
	})
	results, fatal := engine.Run(cmd.Context(), args)
	for _, res := range results {
		if res.Err != nil {
			a.out.Notice(render.BadgeError, "skip", res.Err.Error())
			continue
		}
		showResolution(a, res.Path, res.Resolution)
	}
	return fatal
}

func showResolution(a *app, path string, res *local.Resolution) {
	a.out.Detection(res.Detection)
	switch {
	case res.Movie == nil:
		a.out.NotFound(path)
	case res.Detection.Kind == local.KindEpisode && res.Episode == nil:
		a.out.Movie(res.Movie)
		a.out.NotFound("the episode")
	case res.Episode != nil:
		a.out.Movie(res.Movie)
		a.out.Episode(res.Episode)
	default:
		a.out.Movie(res.Movie)
	}
}

func init() {
	identifyCmd.Flags().BoolVar(&detectOnly, "detect-only", false, "Only show what the path reveals, without any lookup")
	identifyCmd.Flags().IntVarP(&identifyWorkers, "workers", "w", core.DefaultWorkerCount, "Number of paths resolved concurrently")
	rootCmd.AddCommand(identifyCmd)
}
