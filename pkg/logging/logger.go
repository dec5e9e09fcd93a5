// Package logging provides structured logging for mnemosyne using zerolog.
//
// Diagnostics go to stderr so they never interleave with the catalog output
// a session prints on stdout. Terminals get zerolog's console writer, pipes
// get JSON lines.
//
// Example usage:
//
//	log := logging.Default()
//	log.Debug().Str("library", "books").Int("records", 42).Msg("Loaded library")
//
//	ctx := logging.WithLibrary(context.Background(), "books")
//	logging.FromContext(ctx).Warn().Err(err).Msg("Commit failed")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agentstation/mnemosyne/pkg/constants"
)

var defaultLogger zerolog.Logger

func init() {
	defaultLogger = createDefaultLogger()
}

// createDefaultLogger builds the package logger used before the CLI has
// parsed flags. It honours MNEMOSYNE_LOG_LEVEL and MNEMOSYNE_LOG_FORMAT.
func createDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr

	if isTerminal(os.Stderr) && os.Getenv(envKey("LOG_FORMAT")) != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := getLogLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a new debug level log event.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts a new info level log event.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new warning level log event.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts a new error level log event.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func envKey(name string) string {
	return constants.EnvPrefix + "_" + name
}

// getLogLevel reads the level from the environment. Anything unset or
// unparseable means warn, matching the CLI default.
func getLogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(os.Getenv(envKey("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}
