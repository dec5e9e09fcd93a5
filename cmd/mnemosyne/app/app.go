// Package app provides the application context and dependency management
// for the mnemosyne CLI: configuration, logging, and the lazily created
// catalog client.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne"
	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// App represents the mnemosyne application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Standard streams; nil means the process streams
	in  io.Reader
	out io.Writer

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client *mnemosyne.Client
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from files and the environment, then the
// functional options are applied.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
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

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// CollectorMode returns the configured field collector mode.
func (a *App) CollectorMode() string {
	return a.config.Collector
}

// Client returns the catalog client, creating it lazily if needed.
func (a *App) Client() (*mnemosyne.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := mnemosyne.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases application resources. Libraries are opened and closed
// by the commands themselves, so there is nothing long-lived to stop.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

func (a *App) clientOptions() []mnemosyne.Option {
	opts := []mnemosyne.Option{mnemosyne.WithLogger(a.logger)}
	if a.config.DataDir != "" {
		opts = append(opts, mnemosyne.WithDataDir(a.config.DataDir))
	}
	if a.config.RegistryFile != "" {
		opts = append(opts, mnemosyne.WithRegistryFile(a.config.RegistryFile))
	}
	return opts
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

// WithClient sets a custom client instance (useful for testing).
func WithClient(c *mnemosyne.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithIO sets the streams commands read from and write to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) error {
		a.in = in
		a.out = out
		return nil
	}
}
