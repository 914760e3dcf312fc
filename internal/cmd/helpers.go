package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

// titleFlags identify a movie or series on the command line
type titleFlags struct {
	name         string
	originalName string
	year         int
	imdb         string
	tmdb         string
}

func (f *titleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Title name to search for")
	cmd.Flags().StringVar(&f.originalName, "original-name", "", "Original (non-Russian) title name")
	cmd.Flags().IntVar(&f.year, "year", 0, "Release year used to narrow a name search")
	cmd.Flags().StringVar(&f.imdb, "imdb", "", "IMDb ID such as tt0120689")
	cmd.Flags().StringVar(&f.tmdb, "tmdb", "", "TMDb ID")
}

// query builds a title query from an optional Kinopoisk ID argument and the flags
func (f *titleFlags) query(args []string) (provider.MovieQuery, error) {
	q := provider.MovieQuery{
		Name:         strings.TrimSpace(f.name),
		OriginalName: strings.TrimSpace(f.originalName),
		Year:         yearFlag(f.year),
		IDs: provider.ProviderIDs{
			IMDb: strings.TrimSpace(f.imdb),
			TMDb: strings.TrimSpace(f.tmdb),
		},
	}
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return q, err
		}
		q.IDs.Kinopoisk = provider.FormatID(id)
	}
	if q.IDs == (provider.ProviderIDs{}) && q.Name == "" && q.OriginalName == "" {
		return q, fmt.Errorf("give a Kinopoisk ID or one of --name, --original-name, --imdb, --tmdb")
	}
	return q, nil
}

func parseID(raw string) (int64, error) {
	id, ok := provider.ParseID(raw)
	if !ok {
		return 0, fmt.Errorf("invalid Kinopoisk ID %q", raw)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func yearFlag(year int) *int {
	if year <= 0 {
		return nil
	}
	return &year
}

// checkBulk turns an upstream failure with nothing to show into a command error
func checkBulk[T any](res provider.SearchResult[T]) error {
	if res.HasError && len(res.Items) == 0 {
		return errUpstream
	}
	return nil
}
