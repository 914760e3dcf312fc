package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

var top250Series bool

var top250Cmd = &cobra.Command{
	Use:   "top250",
	Short: "List the Kinopoisk Top 250",
	Long: `List the Kinopoisk Top 250 movies, or series with --series.

Only api.kinopoisk.dev serves this list; kinopoiskapiunofficial.tech returns
nothing.`,
	Args: cobra.NoArgs,
	RunE: runTop250,
}

func runTop250(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	var res provider.SearchResult[*provider.Movie]
	if top250Series {
		res, err = svc.GetTop250Series(cmd.Context())
	} else {
		res, err = svc.GetTop250Movies(cmd.Context())
	}
	if err != nil {
		return err
	}
	if err := checkBulk(res); err != nil {
		return err
	}
	if len(res.Items) == 0 {
		a.out.NotFound("the Top 250 with " + svc.Name())
		return nil
	}
	a.out.Movies(res.Items)
	return nil
}

var externalCmd = &cobra.Command{
	Use:   "external <imdb|tmdb> <id>...",
	Short: "Translate IMDb or TMDb IDs to Kinopoisk IDs",
	Long: `Translate IMDb or TMDb IDs to Kinopoisk IDs. IDs without a Kinopoisk
counterpart are left out of the result.`,
	Example: `  kinopoisk-meta external imdb tt0120689 tt0133093
  kinopoisk-meta external tmdb 497`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExternal,
}

func runExternal(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}

	source := provider.ExternalSource(strings.ToLower(args[0]))
	if source != provider.SourceIMDb && source != provider.SourceTMDb {
		return fmt.Errorf("unknown ID source %q, want imdb or tmdb", args[0])
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	res, err := svc.GetKpIDByAnotherID(cmd.Context(), source, args[1:])
	if err != nil {
		return err
	}
	if err := checkBulk(res); err != nil {
		return err
	}
	if len(res.Items) == 0 {
		a.out.NotFound("the given IDs")
		return nil
	}
	a.out.IDMappings(res.Items)
	return nil
}

func init() {
	top250Cmd.Flags().BoolVar(&top250Series, "series", false, "List series instead of movies")
	rootCmd.AddCommand(top250Cmd, externalCmd)
}
