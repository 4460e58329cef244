package logger_test

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegen/internal/logger"
)

func TestNew(t *testing.T) {
	t.Run("writes to stderr at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log, closer, err := logger.New(logger.Options{Level: slog.LevelWarn, Stderr: &buf})
		require.NoError(t, err)
		defer closer.Close()
		log.Info("hidden")
		log.Warn("shown", "file", "a.scene")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "level=WARN msg=shown file=a.scene")
	})
	t.Run("also writes to the log file", func(t *testing.T) {
		var buf bytes.Buffer
		fn := filepath.Join(t.TempDir(), "logs", "scenegen.log")
		log, closer, err := logger.New(logger.Options{Level: slog.LevelInfo, File: fn, Stderr: &buf, MaxSizeMB: 1})
		require.NoError(t, err)
		log.Info("built", "files", 3)
		require.NoError(t, closer.Close())
		data, err := os.ReadFile(fn)
		require.NoError(t, err)
		assert.Contains(t, string(data), "msg=built files=3")
		assert.Contains(t, buf.String(), "msg=built files=3")
	})
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" Warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := logger.ParseLevel(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
	t.Run("unknown", func(t *testing.T) {
		_, err := logger.ParseLevel("loud")
		assert.Error(t, err)
	})
}

func TestLevelFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var lf logger.LevelFlag
	fs.Var(&lf, "loglevel", "log level")
	require.NoError(t, fs.Parse([]string{"-loglevel", "debug"}))
	assert.Equal(t, slog.LevelDebug, lf.Value)
	assert.True(t, lf.IsSet)
	assert.Equal(t, "DEBUG", lf.String())
}
