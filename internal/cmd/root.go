package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kinopoisk-meta",
	Short: "Look up Kinopoisk metadata for movies, series and people",
	Long: `kinopoisk-meta resolves movie, series, episode and person metadata from
Kinopoisk through either kinopoiskapiunofficial.tech or api.kinopoisk.dev.

Titles can be found by Kinopoisk, IMDb or TMDb ID, by name and year, or by
pointing identify at a local media file or folder. Upstream failures that need
attention, such as a rejected token or an exhausted quota, are kept in the
activity log.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openSession,
	PersistentPostRunE: closeSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Interrupts cancel in-flight requests and backoff sleeps
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

var (
	apiType  string
	token    string
	logLevel string
)

func init() {
	// Global flags override the config file for one run
	rootCmd.PersistentFlags().StringVar(&apiType, "api", "", "Provider to use: kinopoiskapiunofficial.tech or kinopoisk.dev")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API token for this run instead of the configured one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
}
