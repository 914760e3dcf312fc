package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/spf13/cobra"
)

var personName string

var personCmd = &cobra.Command{
	Use:   "person [kinopoisk-id]",
	Short: "Show metadata for a person",
	Long: `Resolve a person by Kinopoisk ID or by name. A name must narrow down to a
single person; use 'search --persons' to list candidates.`,
	Example: `  kinopoisk-meta person 9144
  kinopoisk-meta person --name "Том Хэнкс"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPerson,
}

func runPerson(cmd *cobra.Command, args []string) error {
	a, err := session()
	if err != nil {
		return err
	}

	q := provider.PersonQuery{Name: strings.TrimSpace(personName)}
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		q.IDs.Kinopoisk = provider.FormatID(id)
	}
	if q.IDs.Kinopoisk == "" && q.Name == "" {
		return fmt.Errorf("give a Kinopoisk ID or --name")
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	person, err := svc.GetPersonMetadata(cmd.Context(), q)
	if err != nil {
		return err
	}
	if person == nil {
		a.out.NotFound("the person")
		return nil
	}
	a.out.Person(person)
	return nil
}

func init() {
	personCmd.Flags().StringVar(&personName, "name", "", "Person name in Russian or English")
	rootCmd.AddCommand(personCmd)
}
