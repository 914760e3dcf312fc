package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/config"
	activitylog "github.com/Digital-Shane/kinopoisk-meta/internal/log"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/setup"
	"github.com/Digital-Shane/kinopoisk-meta/internal/render"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// errUpstream is returned when a bulk lookup failed upstream and produced nothing
var errUpstream = errors.New("upstream request failed, run 'kinopoisk-meta activity' for details")

// app holds everything one command run needs
type app struct {
	cfg      *config.Config
	logger   hclog.Logger
	activity *activitylog.ActivityLog
	registry *provider.Registry
	out      *render.Renderer
}

// current is the session opened for the running command
var current *app

// newApp builds the session for a command; tests replace it
var newApp = defaultApp

func openSession(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, args)
	if err != nil {
		return err
	}
	current = a
	return nil
}

func closeSession(cmd *cobra.Command, args []string) error {
	if current == nil {
		return nil
	}
	a := current
	current = nil

	path, err := a.activity.Flush()
	if err != nil {
		a.logger.Warn("failed to write activity log", "error", err)
		return nil
	}
	if path != "" {
		a.out.Notice(render.BadgeError, "activity", "upstream failures were recorded in "+path)
	}
	return nil
}

func defaultApp(cmd *cobra.Command, args []string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "kinopoisk-meta",
		Level:  cfg.Level(),
		Output: cmd.ErrOrStderr(),
	})

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	logDir := filepath.Join(dir, "logs")
	if cfg.EnableLogging {
		if removed, err := activitylog.Cleanup(logDir, cfg.LogRetentionDays); err != nil {
			logger.Warn("failed to clean up old activity logs", "error", err)
		} else if removed > 0 {
			logger.Debug("removed old activity logs", "count", removed)
		}
	}
	activity := activitylog.New(logDir, cfg.EnableLogging, cmd.Name(), args)

	registry, err := setup.NewRegistry(setup.Options{
		Config:   func() *config.Config { return cfg },
		Logger:   logger,
		Activity: activity,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		activity: activity,
		registry: registry,
		out:      render.New(cmd.OutOrStdout(), render.WithSequels(cfg.CreateSequenceCollections)),
	}, nil
}

// applyOverrides layers the global flags over the loaded config for this run only
func applyOverrides(cfg *config.Config) error {
	if apiType != "" {
		cfg.APIType = apiType
	}
	if token != "" {
		cfg.Token = token
	}
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// service returns the active provider; a missing token is reported up front
func (a *app) service() (provider.Service, error) {
	if strings.TrimSpace(a.cfg.Token) == "" {
		return nil, fmt.Errorf("%w: run 'kinopoisk-meta config set token <token>'", provider.ErrNotConfigured)
	}
	svc, err := a.registry.Active()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using provider", "name", svc.Name())
	return svc, nil
}

// session returns the opened app or fails when a command runs outside the root
func session() (*app, error) {
	if current == nil {
		return nil, fmt.Errorf("command session is not initialized")
	}
	return current, nil
}
