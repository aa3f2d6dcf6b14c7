package cmdlogger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/loudstrie/internal/cmdlogger"
)

func newLogger() (*cmdlogger.Handler, *slog.Logger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	h := cmdlogger.New(&stdout, &stderr)

	return h, slog.New(h), &stdout, &stderr
}

func TestHandler_RoutesByLevel(t *testing.T) {
	t.Parallel()

	h, logger, stdout, stderr := newLogger()

	logger.Info("opened", "keys", 3)
	logger.Warn("slow")
	require.False(t, h.HasErrored())

	logger.Error("broken", "file", "a.trie")
	require.True(t, h.HasErrored())

	require.Equal(t, "opened keys=3\nslow\n", stdout.String())
	require.Equal(t, "broken file=a.trie\n", stderr.String())
}

func TestHandler_Level(t *testing.T) {
	t.Parallel()

	h, logger, stdout, _ := newLogger()

	logger.Debug("hidden")
	require.Empty(t, stdout.String())

	h.SetLevel(slog.LevelDebug)
	logger.Debug("shown")
	require.Equal(t, "shown\n", stdout.String())

	h.SetLevel(slog.LevelError)
	logger.Warn("hidden")
	require.Equal(t, "shown\n", stdout.String())
}

func TestHandler_SendEverythingToStderr(t *testing.T) {
	t.Parallel()

	h, logger, stdout, stderr := newLogger()
	h.SendEverythingToStderr()

	logger.Info("info")
	require.Empty(t, stdout.String())
	require.Equal(t, "info\n", stderr.String())
}

func TestHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	h, logger, stdout, _ := newLogger()

	logger.With("cmd", "build").WithGroup("trie").Info("done", "nodes", 7, slog.Group("size", "image", 64))
	require.Equal(t, "done cmd=build trie.nodes=7 trie.size.image=64\n", stdout.String())

	// derived loggers share the error state
	logger.With("cmd", "x").Error("fail")
	require.True(t, h.HasErrored())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		level slog.Level
	}{
		{input: "error", level: slog.LevelError},
		{input: "warn", level: slog.LevelWarn},
		{input: "info", level: slog.LevelInfo},
		{input: "debug", level: slog.LevelDebug},
		{input: "DEBUG", level: slog.LevelDebug},
		{input: " Warn\n", level: slog.LevelWarn},
	}

	for _, tt := range tests {
		lvl, err := cmdlogger.ParseLevel(tt.input)
		require.NoError(t, err)
		require.Equal(t, tt.level, lvl, tt.input)
	}

	lvl, err := cmdlogger.ParseLevel("invalidlvl")
	require.ErrorContains(t, err, "error|warn|info|debug")
	require.Equal(t, slog.LevelInfo, lvl)
	require.Equal(t, []string{"error", "warn", "info", "debug"}, cmdlogger.Levels())
}
