// Package logging provides the process-wide zerolog logger.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Int64("match_id", id).Msg("stored events")
//
// Logs go to stderr so table output on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Default: info.
	Level string

	// Format is console or json. Default: console.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	// Usable before Init; quiet until configured.
	log = zerolog.New(io.Discard)
}

// Init configures the global logger.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
		w = out
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return nil
}

// ParseLevel accepts debug, info, warn/warning, error (case-insensitive).
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level: %s", level)
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With returns a child logger carrying a component name.
func With(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
