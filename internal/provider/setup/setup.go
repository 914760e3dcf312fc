// Package setup wires the built-in Kinopoisk providers into a registry
package setup

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/config"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/dev"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/unofficial"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
)

// Options carries what every provider factory needs
type Options struct {
	// Config is read on every call so token and api_type changes apply immediately
	Config   func() *config.Config
	Logger   hclog.Logger
	Activity provider.ActivityRecorder

	// Transport and BaseURLs override the network for tests
	Transport http.RoundTripper
	BaseURLs  map[string]string
}

// NewRegistry returns a registry with both providers registered; the active
// one follows the configured api_type.
func NewRegistry(opts Options) (*provider.Registry, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config source is required")
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	reg := provider.NewRegistry(func() string { return opts.Config().APIType })
	if err := LoadBuiltinProviders(reg, opts); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadBuiltinProviders registers the factories of both Kinopoisk backends
func LoadBuiltinProviders(reg *provider.Registry, opts Options) error {
	if err := reg.Register(unofficial.Name, func() (provider.Service, error) {
		client := unofficial.NewClient(opts.token, opts.clientOptions()...)
		return unofficial.New(client, opts.unofficialOptions()...), nil
	}); err != nil {
		return fmt.Errorf("failed to register %s provider: %w", unofficial.Name, err)
	}

	if err := reg.Register(dev.Name, func() (provider.Service, error) {
		client := dev.NewClient(opts.token, opts.clientOptions()...)
		return dev.New(client, opts.devOptions()...), nil
	}); err != nil {
		return fmt.Errorf("failed to register %s provider: %w", dev.Name, err)
	}

	return nil
}

func (o Options) token() string {
	return o.Config().Token
}

func (o Options) clientOptions() []upstream.Option {
	cfg := o.Config()
	httpClient := &http.Client{Timeout: cfg.RequestTimeout(), Transport: o.Transport}

	opts := []upstream.Option{
		upstream.WithHTTPClient(httpClient),
		upstream.WithLogger(o.Logger),
		upstream.WithActivity(o.Activity),
		upstream.WithRetry(cfg.RetryPolicy()),
	}
	if cfg.RateLimitPerSecond > 0 {
		opts = append(opts, upstream.WithRateLimit(cfg.RateLimitPerSecond, time.Second))
	}
	return opts
}

func (o Options) unofficialOptions() []unofficial.Option {
	opts := []unofficial.Option{unofficial.WithLogger(o.Logger)}
	if base := o.BaseURLs[unofficial.Name]; base != "" {
		opts = append(opts, unofficial.WithBaseURL(base))
	}
	return opts
}

func (o Options) devOptions() []dev.Option {
	opts := []dev.Option{dev.WithLogger(o.Logger)}
	if base := o.BaseURLs[dev.Name]; base != "" {
		opts = append(opts, dev.WithBaseURL(base))
	}
	return opts
}
