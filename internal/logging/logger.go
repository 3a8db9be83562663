package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides optional verbose logging and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	zlog    *zerolog.Logger
	Verbose bool
}

func New(writer io.Writer, verbose bool) Logger {
	if writer == nil {
		return Logger{Verbose: verbose}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return Logger{zlog: &zlog, Verbose: verbose}
}

func (l Logger) Infof(format string, args ...any) {
	if l.zlog == nil {
		return
	}
	l.zlog.Info().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Warnf(format string, args ...any) {
	if l.zlog == nil {
		return
	}
	l.zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose || l.zlog == nil {
		return
	}
	l.zlog.Debug().Msg(fmt.Sprintf(format, args...))
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}
