package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	for _, want := range []string{"info message", "warning message", "error message"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithLibrary(ctx, "books")
	ctx = logging.WithCommand(ctx, "edit")

	logging.FromContext(ctx).Info().Msg("test message")

	testLogger.AssertContains(t, `"library":"books"`)
	testLogger.AssertContains(t, `"command":"edit"`)
	testLogger.AssertContains(t, "test message")
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Warn().Str("row", "3").Msg("skipped import row")

	captured.AssertContains(t, "skipped import row")
	if len(captured.Lines()) != 1 {
		t.Errorf("expected 1 log line, got %d", len(captured.Lines()))
	}
}
