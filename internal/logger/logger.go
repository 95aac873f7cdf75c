package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"notehub/internal/config"
)

var (
	singleton *slog.Logger
	once      sync.Once
)

// Init builds the process logger once; later calls return the same
// instance whatever cfg they pass.
//
// Output goes to cfg.LogFile when set, stdout otherwise. The logger also
// becomes slog's default so nothing else writes to the terminal the TUI
// draws on.
func Init(cfg config.Config) (*slog.Logger, error) {
	var initErr error

	once.Do(func() {
		out, err := openOutput(cfg.LogFile)
		if err != nil {
			initErr = fmt.Errorf("open log output: %w", err)
			return
		}
		singleton = New(out, cfg.LogLevel, cfg.LogFormat)
		slog.SetDefault(singleton)
	})

	return singleton, initErr
}

// New builds a logger writing to w; it does not touch the singleton.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		fallthrough
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a config level name onto slog; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openOutput appends to path, creating missing parent directories.
func openOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// L returns the singleton logger instance, or slog.Default before Init.
func L() *slog.Logger {
	if singleton == nil {
		return slog.Default()
	}
	return singleton
}
