// Package appcontext provides the application context interface shared by
// all commands, so command packages depend on an interface instead of the
// concrete App type.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne"
)

// Interface defines what commands need from the application.
// The App struct from cmd/mnemosyne/app implements it.
type Interface interface {
	// Client returns the catalog client, creating it lazily if needed.
	Client() (*mnemosyne.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// CollectorMode returns how the shell collects field values (auto, prompt, form).
	CollectorMode() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
