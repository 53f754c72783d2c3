// Package app provides the application context and dependency management for
// the schemagen CLI. It centralizes configuration, logging, and the
// descriptor registry the generator runs against.
package app

import (
	"github.com/rs/zerolog"

	"github.com/buildforge/schemagen/pkg/errors"
	"github.com/buildforge/schemagen/pkg/pipeline"
	"github.com/buildforge/schemagen/pkg/schema"
)

// App represents the schemagen application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Descriptor registry (lazy-initialized)
	registry *schema.Registry
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Registry returns the descriptor registry, performing the declarative
// registration of the contract roots on first use.
func (a *App) Registry() (*schema.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}
	registry, err := pipeline.Definitions()
	if err != nil {
		return nil, err
	}
	a.registry = registry
	return registry, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry sets a custom descriptor registry (useful for testing).
func WithRegistry(registry *schema.Registry) Option {
	return func(a *App) error {
		a.registry = registry
		return nil
	}
}
