package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Digital-Shane/kinopoisk-meta/internal/config"
	activitylog "github.com/Digital-Shane/kinopoisk-meta/internal/log"
	"github.com/Digital-Shane/kinopoisk-meta/internal/render"
	"github.com/spf13/cobra"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recorded upstream failures",
	Long: `Show recent sessions from the activity log. A session is written whenever
a command met a rejected token or an exhausted request quota.`,
	Args: cobra.NoArgs,
	// Reading the log needs no provider session
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		summaries, err := activitylog.Summaries(filepath.Join(dir, "logs"), activityLimit)
		if err != nil {
			return fmt.Errorf("failed to read activity log: %w", err)
		}
		render.New(cmd.OutOrStdout()).Sessions(summaries)
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 10, "Number of sessions to show, 0 for all")
	rootCmd.AddCommand(activityCmd)
}
