package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "library",
			ID:       "books",
		}
		assert.Equal(t, `library "books" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("library", "films")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("Title", "", "must not be empty")
		assert.Equal(t, "invalid Title: must not be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "missing parameter"}
		assert.Equal(t, "invalid input: missing parameter", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestOutOfRangeError(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		err := pkgerrors.NewOutOfRangeError("result set", 0, 0)
		assert.Equal(t, "no entry 0: result set is empty", err.Error())
		assert.True(t, pkgerrors.IsOutOfRange(err))
	})

	t.Run("bounded collection", func(t *testing.T) {
		err := pkgerrors.NewOutOfRangeError("library", 7, 3)
		assert.Equal(t, "no entry 7: library has entries 0-2", err.Error())
		assert.False(t, pkgerrors.IsNotFound(err))
	})
}

func TestCorruptionError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.WrapCorruption("json", "books.json", base)

	var corrupt *pkgerrors.CorruptionError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, "books.json", corrupt.File)
	assert.Equal(t, base, corrupt.Unwrap())
	assert.True(t, pkgerrors.IsCorruption(err))
	assert.Contains(t, err.Error(), "unexpected end of JSON input")

	assert.Nil(t, pkgerrors.WrapCorruption("json", "books.json", nil))
}

func TestLockedError(t *testing.T) {
	err := &pkgerrors.LockedError{Library: "books", LockPath: "/data/books.json.lock"}
	assert.True(t, pkgerrors.IsLocked(err))
	assert.Contains(t, err.Error(), "books")
	assert.Contains(t, err.Error(), "books.json.lock")
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/books.json", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/data/books.json")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("rename", "books.json", errors.New("cross-device link"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Equal(t, "books.json", ioErr.Path)
	})
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("create", "library", "books", pkgerrors.ErrAlreadyExists)
	resErr, ok := err.(*pkgerrors.ResourceError)
	require.True(t, ok)
	assert.Equal(t, "library", resErr.Resource)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), "failed to create library books")
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("collector", `unknown collector "gui"`, nil)
	assert.Contains(t, err.Error(), "collector")
	assert.Contains(t, err.Error(), "gui")
	assert.Nil(t, err.Unwrap())
}

func TestWrapHelpersNil(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapResource("open", "library", "x", nil))
	assert.Nil(t, pkgerrors.WrapValidation("Rating", nil))
	assert.True(t, pkgerrors.IsValidationError(pkgerrors.WrapValidation("Rating", errors.New("not a number"))))
}
