package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"INFO":   zapcore.InfoLevel,
		" warn ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"fatal":  zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext verifies that loggers travel through contexts and fall back to the global one.
func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))

	l := zap.NewNop().Sugar()
	ctx := ToContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestWithKV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(zapcore.AddSync(&buf), zapcore.DebugLevel)
	ctx := WithKV(ToContext(context.Background(), l), "session", "abc")

	InfoKV(ctx, "exported volume", "path", "out.nii")
	require.Contains(t, buf.String(), "exported volume")
	require.Contains(t, buf.String(), `"session": "abc"`)
	require.Contains(t, buf.String(), `"path": "out.nii"`)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(zapcore.AddSync(&buf), zapcore.InfoLevel)
	ctx := WithName(ToContext(context.Background(), l), "export")

	Debugf(ctx, "hidden %d", 1)
	Infof(ctx, "wrote %s", "a.nii")
	Warnf(ctx, "slice %d out of range", 9)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "export")
	require.Contains(t, out, "wrote a.nii")
	require.Contains(t, out, "slice 9 out of range")
}
