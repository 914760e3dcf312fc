package cmd

import (
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	series  bool
	persons bool
	year    int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List movies, series or people matching a name",
	Long: `List the candidates Kinopoisk returns for a name. Movies are searched by
default; --series and --persons switch the kind.`,
	Example: `  kinopoisk-meta search Матрица --year 1999
  kinopoisk-meta search --series Друзья
  kinopoisk-meta search --persons "Tom Hanks"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")
	var hits []provider.SearchHit
	switch {
	case searchFlags.persons:
		hits, err = svc.SearchPersons(cmd.Context(), provider.PersonQuery{Name: name})
	case searchFlags.series:
		hits, err = svc.SearchSeries(cmd.Context(), provider.MovieQuery{Name: name, Year: yearFlag(searchFlags.year)})
	default:
		hits, err = svc.SearchMovies(cmd.Context(), provider.MovieQuery{Name: name, Year: yearFlag(searchFlags.year)})
	}
	if err != nil {
		return err
	}
	a.out.Hits(hits)
	return nil
}

var imagesFlags titleFlags

var imagesCmd = &cobra.Command{
	Use:   "images [kinopoisk-id]",
	Short: "List posters, backdrops and logos of a title",
	Example: `  kinopoisk-meta images 435
  kinopoisk-meta images --name "Зеленая миля" --year 1999`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImages,
}

func runImages(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}
	q, err := imagesFlags.query(args)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	images, err := svc.GetImages(cmd.Context(), q)
	if err != nil {
		return err
	}
	a.out.Images(images)
	return nil
}

func init() {
	searchCmd.Flags().BoolVar(&searchFlags.series, "series", false, "Search series instead of movies")
	searchCmd.Flags().BoolVar(&searchFlags.persons, "persons", false, "Search people instead of titles")
	searchCmd.Flags().IntVar(&searchFlags.year, "year", 0, "Release year used to narrow the results")
	searchCmd.MarkFlagsMutuallyExclusive("series", "persons")

	imagesFlags.register(imagesCmd)
	rootCmd.AddCommand(searchCmd, imagesCmd)
}
