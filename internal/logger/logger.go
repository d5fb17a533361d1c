/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the process-wide zerolog logger.
//
// CLI commands log human-readable lines to stderr; the serve command switches
// to JSON with SetJSONOutput. Use io.Discard to silence everything.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	base = base.Level(zerolog.InfoLevel)
	SetOutput(os.Stderr)
}

// SetOutput writes console-formatted lines without timestamps to w.
func SetOutput(w io.Writer) {
	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	set(zerolog.New(console))
}

// SetJSONOutput writes one JSON object per event to w, tagged with service.
func SetJSONOutput(w io.Writer, service string) {
	set(zerolog.New(w).With().Timestamp().Str("service", service).Logger())
}

func set(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l.Level(base.GetLevel())
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
	return nil
}

// L returns the current logger.
func L() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the component name.
func WithComponent(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	l := L()
	l.Warn().Msgf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	l := L()
	l.Info().Msgf(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	l := L()
	l.Debug().Msgf(format, args...)
}

// Error logs an error message.
func Error(err error, format string, args ...any) {
	l := L()
	l.Error().Err(err).Msgf(format, args...)
}
