// Package errors provides custom error types for the mnemosyne system.
// These errors enable programmatic error checking at the command boundary,
// where every failure is reported to the user and the session continues.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the mnemosyne system
var (
	// ErrNotFound indicates that a requested library or registry entry was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a library already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange indicates that an index references no result or library position
	ErrOutOfRange = errors.New("out of range")

	// ErrCorrupt indicates that durable content could not be parsed
	ErrCorrupt = errors.New("corrupt content")

	// ErrLocked indicates that a library is held by another process
	ErrLocked = errors.New("locked")

	// ErrNoLibrary indicates that a command needs an open library and none is active
	ErrNoLibrary = errors.New("no library open")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// OutOfRangeError represents an index outside a result set or library
type OutOfRangeError struct {
	Collection string // "result set", "library"
	Index      int
	Length     int
}

// Error implements the error interface
func (e *OutOfRangeError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("no entry %d: %s is empty", e.Index, e.Collection)
	}
	return fmt.Sprintf("no entry %d: %s has entries 0-%d", e.Index, e.Collection, e.Length-1)
}

// Is implements errors.Is support
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// NewOutOfRangeError creates a new OutOfRangeError
func NewOutOfRangeError(collection string, index, length int) *OutOfRangeError {
	return &OutOfRangeError{Collection: collection, Index: index, Length: length}
}

// CorruptionError represents durable content that failed to parse
type CorruptionError struct {
	Format  string // "json"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *CorruptionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("corrupt %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("corrupt %s content: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CorruptionError) Is(target error) bool {
	return target == ErrCorrupt
}

// NewCorruptionError creates a new CorruptionError
func NewCorruptionError(format, file, message string, err error) *CorruptionError {
	return &CorruptionError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// LockedError indicates that another process holds a library lock
type LockedError struct {
	Library  string
	LockPath string
}

// Error implements the error interface
func (e *LockedError) Error() string {
	return fmt.Sprintf("library %q is open in another process (lock %s)", e.Library, e.LockPath)
}

// Is implements errors.Is support
func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "sync", "lock"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "open", "commit", "import"
	Resource  string // "library", "registry", "record"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsOutOfRange checks if an error is an out of range error
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsCorruption checks if an error is a corruption error
func IsCorruption(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// IsLocked checks if an error is a lock contention error
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapCorruption wraps a decode error as a CorruptionError
func WrapCorruption(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewCorruptionError(format, file, err.Error(), err)
}
