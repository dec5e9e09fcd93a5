package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne"
	"github.com/agentstation/mnemosyne/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	ClientFunc        func() (*mnemosyne.Client, error)
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	CollectorModeFunc func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Client returns a client using the mock function or one rooted in the
// current directory.
func (m *Mock) Client() (*mnemosyne.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return mnemosyne.New()
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// CollectorMode returns the collector mode using the mock function or "prompt".
func (m *Mock) CollectorMode() string {
	if m.CollectorModeFunc != nil {
		return m.CollectorModeFunc()
	}
	return "prompt"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
