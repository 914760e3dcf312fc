package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

var episodeFlags struct {
	imdb    string
	tmdb    string
	season  int
	episode int
}

var episodeCmd = &cobra.Command{
	Use:   "episode [series-kinopoisk-id] --season N --episode N",
	Short: "Show metadata for one episode of a series",
	Long: `Resolve an episode inside a series identified by its Kinopoisk ID, or by
its IMDb or TMDb ID when the Kinopoisk ID is not known.`,
	Example: `  kinopoisk-meta episode 77044 --season 1 --episode 24
  kinopoisk-meta episode --imdb tt0108778 --season 1 --episode 24`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEpisode,
}

func runEpisode(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}

	q := provider.EpisodeQuery{
		SeriesIDs: provider.ProviderIDs{
			IMDb: strings.TrimSpace(episodeFlags.imdb),
			TMDb: strings.TrimSpace(episodeFlags.tmdb),
		},
		Season:  episodeFlags.season,
		Episode: episodeFlags.episode,
	}
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		q.SeriesIDs.Kinopoisk = provider.FormatID(id)
	}
	if q.SeriesIDs == (provider.ProviderIDs{}) {
		return fmt.Errorf("give the series Kinopoisk ID or one of --imdb, --tmdb")
	}
	if q.Episode <= 0 {
		return fmt.Errorf("--episode must be positive")
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	episode, err := svc.GetEpisodeMetadata(cmd.Context(), q)
	if err != nil {
		return err
	}
	if episode == nil {
		a.out.NotFound(fmt.Sprintf("season %d episode %d", q.Season, q.Episode))
		return nil
	}
	a.out.Episode(episode)
	return nil
}

func init() {
	episodeCmd.Flags().StringVar(&episodeFlags.imdb, "imdb", "", "IMDb ID of the series")
	episodeCmd.Flags().StringVar(&episodeFlags.tmdb, "tmdb", "", "TMDb ID of the series")
	episodeCmd.Flags().IntVarP(&episodeFlags.season, "season", "s", 1, "Season number")
	episodeCmd.Flags().IntVarP(&episodeFlags.episode, "episode", "e", 0, "Episode number")
	rootCmd.AddCommand(episodeCmd)
}
