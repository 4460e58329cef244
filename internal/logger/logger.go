// Package logger builds the structured logger shared by the commands.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/scenegen.log"

// Options controls where log records go.
type Options struct {
	Level      slog.Level
	File       string // rotated log file; empty logs to Stderr only
	MaxSizeMB  int
	MaxBackups int
	Stderr     io.Writer // defaults to os.Stderr
}

// New returns a text logger writing to stderr and, when a file is configured, to a rotated
// log file as well. The returned closer releases the file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var out io.Writer = opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	closer := io.Closer(nopCloser{})
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB, // megabytes
			MaxBackups: opts.MaxBackups,
		}
		out = io.MultiWriter(out, lj)
		closer = lj
	}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(h), closer, nil
}

// ParseLevel converts a level name like "debug" or "WARN" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
	return v, nil
}

// LevelFlag is a flag.Value for log levels.
type LevelFlag struct {
	Value slog.Level
	IsSet bool
}

func (l *LevelFlag) String() string {
	return l.Value.String()
}

func (l *LevelFlag) Set(value string) error {
	v, err := ParseLevel(value)
	if err != nil {
		return err
	}
	l.Value = v
	l.IsSet = true
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
