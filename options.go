package mnemosyne

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*options) error

type options struct {
	dataDir      string
	registryFile string
	logger       *zerolog.Logger
}

func defaults() *options {
	return &options{
		dataDir:      constants.DefaultDataDir,
		registryFile: constants.DefaultRegistryFile,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDataDir sets the directory holding the registry and library files.
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.NewConfigError("data_dir", "must not be empty", nil)
		}
		o.dataDir = dir
		return nil
	}
}

// WithRegistryFile sets the registry file name inside the data directory.
func WithRegistryFile(name string) Option {
	return func(o *options) error {
		if name == "" {
			return errors.NewConfigError("registry_file", "must not be empty", nil)
		}
		o.registryFile = name
		return nil
	}
}

// WithLogger sets the logger used for client operations.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
