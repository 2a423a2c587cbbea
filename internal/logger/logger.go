package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base zerolog.Logger
	set  bool
)

// Init configures the global JSON logger. Logs go to stderr so the console
// summary on stdout stays readable.
//
// level is one of debug|info|warn|error (anything else means info).
// pretty switches to zerolog's human readable console writer.
func Init(level string, pretty bool) {
	InitWriter(os.Stderr, level, pretty)
}

// InitWriter is Init with an explicit destination; tests use it to capture output.
func InitWriter(out io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	base = zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	set = true
	mu.Unlock()
}

// L returns the global logger. Without a prior Init it falls back to the
// LOG_LEVEL and LOG_PRETTY environment variables.
func L() *zerolog.Logger {
	mu.RLock()
	ok := set
	mu.RUnlock()
	if !ok {
		Init(os.Getenv("LOG_LEVEL"), strings.EqualFold(os.Getenv("LOG_PRETTY"), "true"))
	}

	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
