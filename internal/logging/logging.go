// Package logging sets up the process logger. A tray application has no
// console, so records go to a size-rotated file in the user state directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/rectangular/internal/runtimepath"
)

const (
	DefaultMaxSizeMB = 5
	DefaultMaxFiles  = 3
)

// Options configures New.
type Options struct {
	// Path of the log file. Empty means runtimepath.LogPath.
	Path      string
	Level     string
	MaxSizeMB int
	MaxFiles  int
	// Mirror also writes records to this writer, typically os.Stderr for
	// command-line use.
	Mirror io.Writer
}

// Logger is a slog.Logger whose level can change at runtime.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  *RotatingFile
	path  string
}

// New opens the log file and returns a text logger writing to it.
func New(opts Options) (*Logger, error) {
	path := opts.Path
	if path == "" {
		p, err := runtimepath.LogPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = DefaultMaxSizeMB
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}

	file, err := OpenRotating(path, int64(opts.MaxSizeMB)*1024*1024, opts.MaxFiles)
	if err != nil {
		return nil, err
	}

	var w io.Writer = file
	if opts.Mirror != nil {
		w = io.MultiWriter(file, opts.Mirror)
	}

	level := new(slog.LevelVar)
	level.Set(ParseLevel(opts.Level))
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		level:  level,
		file:   file,
		path:   path,
	}, nil
}

// SetLevel changes the minimum level of records written.
func (l *Logger) SetLevel(s string) {
	l.level.Set(ParseLevel(s))
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel converts a configuration level name to a slog level. Unknown
// names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Stderr returns a logger for command-line subcommands.
func Stderr(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
