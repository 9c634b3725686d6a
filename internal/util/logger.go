// Package util provides common utilities for devwatch.
package util

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger  zerolog.Logger
	logOnce sync.Once
	logFile *os.File
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// InitLogger configures the process logger. Output goes to stdout and, when
// a path is given and writable, to the log file as well.
func InitLogger(level, filePath string) {
	logOnce.Do(func() {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}

		writers := []io.Writer{os.Stdout}
		if filePath != "" {
			if err := EnsureDir(filepath.Dir(filePath)); err == nil {
				f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err == nil {
					logFile = f
					writers = append(writers, f)
				}
			}
		}

		logger = zerolog.New(io.MultiWriter(writers...)).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	})
}

// Log returns the process logger.
func Log() *zerolog.Logger {
	return &logger
}

// CloseLogger closes the log file if one is open.
func CloseLogger() error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
