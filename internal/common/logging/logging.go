// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects level, output format and an optional rotated file sink.
type Options struct {
	Level  string
	Format string // json or console
	File   string
	// Rotation limits for File; zero values keep lumberjack defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to stderr and, when File is set, to a rotated
// file. The closer releases the file sink.
func New(o Options) (zerolog.Logger, io.Closer, error) {
	return build(o, os.Stderr)
}

func build(o Options, console io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(o.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var out io.Writer
	switch strings.ToLower(o.Format) {
	case "", "json":
		out = console
	case "console":
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("unknown log format %q", o.Format)
	}

	var closer io.Closer = nopCloser{}
	if o.File != "" {
		lj := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   true,
		}
		// The file always gets JSON regardless of the console format.
		out = zerolog.MultiLevelWriter(out, lj)
		closer = lj
	}

	l := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "irisd").Logger()
	return l, closer, nil
}

// ParseLevel accepts zerolog level names plus "off"; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "off", "none":
		return zerolog.Disabled, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
