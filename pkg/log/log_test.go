package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx(t *testing.T) {
	ctx := context.Background()

	t.Run("Fallback", func(t *testing.T) {
		l := Ctx(ctx)
		require.NotNil(t, l)
		assert.Equal(t, defaultLogger, l, "bare context should fall back to the default logger")
	})

	t.Run("Carried", func(t *testing.T) {
		var buf bytes.Buffer
		custom := slog.New(slog.NewJSONHandler(&buf, nil))

		l := Ctx(With(ctx, custom))
		require.Equal(t, custom, l)

		l.InfoContext(ctx, "hello", slog.String("k", "v"))
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "v", line["k"])
	})

	t.Run("InnermostWins", func(t *testing.T) {
		outer := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
		inner := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

		nested := With(With(ctx, outer), inner)
		assert.Equal(t, inner, Ctx(nested))
	})
}

func TestSetDefaultLogLevel(t *testing.T) {
	ctx := context.Background()

	SetDefaultLogLevel(slog.LevelInfo)
	assert.False(t, defaultLogger.Enabled(ctx, slog.LevelDebug))

	SetDefaultLogLevel(slog.LevelDebug)
	assert.True(t, defaultLogger.Enabled(ctx, slog.LevelDebug))

	SetDefaultLogLevel(slog.LevelInfo)
}
