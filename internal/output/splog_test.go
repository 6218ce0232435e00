package output

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleHandlerDebugGating(t *testing.T) {
	var buf bytes.Buffer
	quiet := false
	handler := &simpleHandler{writer: &buf, debugMode: true, quiet: &quiet}
	logger := slog.New(handler)

	logger.Debug("$ hg log -r max(.::) -T {node}")
	require.Contains(t, buf.String(), "$ hg log")

	buf.Reset()
	handler.debugMode = false
	logger.Debug("$ hg log -r max(.::) -T {node}")
	require.Empty(t, buf.String())

	buf.Reset()
	handler.debugMode = true
	quiet = true
	logger.Debug("$ hg log -r max(.::) -T {node}")
	require.Empty(t, buf.String())
}

func TestNewSplogInstallsDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("DEBUG", "1")
	splog := NewSplog()
	require.Same(t, splog.Logger(), slog.Default())
	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("DEBUG", "")
	NewSplog()
	require.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
