package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/mnemosyne/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to default", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		assert.Equal(t, logging.Default(), logging.FromContext(nil))
		assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("WithSession stores the session id", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)
		ctx = logging.WithSession(ctx, "abc-123")

		assert.Equal(t, "abc-123", logging.SessionID(ctx))
		logging.FromContext(ctx).Info().Msg("hello")
		testLogger.AssertContains(t, `"session_id":"abc-123"`)
	})

	t.Run("SessionID is empty without a session", func(t *testing.T) {
		assert.Empty(t, logging.SessionID(context.Background()))
	})

	t.Run("WithField handles int and bool", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)
		ctx = logging.WithField(ctx, "position", 3)
		ctx = logging.WithField(ctx, "dirty", true)

		logging.FromContext(ctx).Info().Msg("x")
		testLogger.AssertContains(t, `"position":3`)
		testLogger.AssertContains(t, `"dirty":true`)
	})
}
