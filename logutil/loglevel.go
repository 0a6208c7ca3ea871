package logutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ParseZerologLevel maps a --log-level value to a zerolog level. Matching is
// case-insensitive; unknown or empty values fall back to info.
func ParseZerologLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return lvl
}

// NewConsoleLogger returns a human-readable logger for interactive CLI use.
// Colors are only used on a terminal and timestamps only at debug level and
// below.
func NewConsoleLogger(out io.Writer, level string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl := ParseZerologLevel(level)

	writer := zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: time.Kitchen,
	}

	if lvl > zerolog.DebugLevel {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
