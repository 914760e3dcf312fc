package cmd

import (
	"fmt"

	"github.com/Digital-Shane/kinopoisk-meta/internal/config"
	"github.com/Digital-Shane/kinopoisk-meta/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	Long: `Show or change the settings stored in ~/.kinopoisk-meta/config.json.

Keys: api_type, token, enable_logging, log_retention_days, log_level,
request_timeout_seconds, max_retries, retry_base_delay_ms,
rate_limit_per_second, create_sequence_collections.`,
	// The config commands must work even when the stored config is invalid
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		fields := make([]render.Field, 0, len(config.Keys()))
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			if key == "token" {
				value = maskToken(value)
			}
			fields = append(fields, render.Field{Label: key, Value: value})
		}
		render.New(cmd.OutOrStdout()).Fields(path, fields)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Change one setting",
	Example: `  kinopoisk-meta config set token 0f1e2d3c-...
  kinopoisk-meta config set api_type kinopoisk.dev`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		value, _ := cfg.Get(args[0])
		if args[0] == "token" {
			value = maskToken(value)
		}
		render.New(cmd.OutOrStdout()).Notice(render.BadgeSuccess, "saved", fmt.Sprintf("%s = %s", args[0], value))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// maskToken keeps the last four characters of a credential
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
