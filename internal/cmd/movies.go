package cmd

import (
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

var movieFlags titleFlags

var movieCmd = &cobra.Command{
	Use:   "movie [kinopoisk-id...]",
	Short: "Show metadata for a movie",
	Long: `Resolve a movie by Kinopoisk ID, by IMDb or TMDb ID, or by name and year.

With several Kinopoisk IDs the movies are fetched together and listed.`,
	Example: `  kinopoisk-meta movie 435
  kinopoisk-meta movie 435 326 448
  kinopoisk-meta movie --imdb tt0120689
  kinopoisk-meta movie --name "Зеленая миля" --year 1999`,
	RunE: runMovie,
}

var seriesFlags titleFlags

var seriesCmd = &cobra.Command{
	Use:   "series [kinopoisk-id]",
	Short: "Show metadata for a series",
	Long:  `Resolve a series by Kinopoisk ID, by IMDb or TMDb ID, or by name and year.`,
	Example: `  kinopoisk-meta series 77044
  kinopoisk-meta series --name "Друзья" --year 1994`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeries,
}

func runMovie(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	if len(args) > 1 {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		res, err := svc.GetMoviesByIDs(cmd.Context(), ids)
		if err != nil {
			return err
		}
		if err := checkBulk(res); err != nil {
			return err
		}
		a.out.Movies(res.Items)
		return nil
	}

	q, err := movieFlags.query(args)
	if err != nil {
		return err
	}
	movie, err := svc.GetMovieMetadata(cmd.Context(), q)
	if err != nil {
		return err
	}
	showTitle(a, movie, "the movie")
	return nil
}

func runSeries(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	q, err := seriesFlags.query(args)
	if err != nil {
		return err
	}
	series, err := svc.GetSeriesMetadata(cmd.Context(), q)
	if err != nil {
		return err
	}
	showTitle(a, series, "the series")
	return nil
}

func showTitle(a *app, m *provider.Movie, what string) {
	if m == nil {
		a.out.NotFound(what)
		return
	}
	a.out.Movie(m)
}

func init() {
	movieFlags.register(movieCmd)
	seriesFlags.register(seriesCmd)
	rootCmd.AddCommand(movieCmd, seriesCmd)
}
