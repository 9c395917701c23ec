// Package logger builds the service's slog logger over a rotating file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 7
)

// New returns a logger writing JSON records to dir/ccr.log with rotation.
// In debug mode records are mirrored to stderr at debug level. An empty dir
// logs to stderr only.
func New(dir string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			file := &lj.Logger{
				Filename:   filepath.Join(dir, "ccr.log"),
				MaxSize:    defaultMaxSizeMB,
				MaxBackups: defaultMaxBackups,
				MaxAge:     defaultMaxAgeDays,
			}
			if debug {
				w = io.MultiWriter(file, os.Stderr)
			} else {
				w = file
			}
		}
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
