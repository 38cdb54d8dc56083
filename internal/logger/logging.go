// Package logger builds prefixed charmbracelet/log loggers for the server and cli.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to stderr at the current global level.
// stdout is reserved for msgpack responses and command output.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	level := log.GetLevel()
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: level <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}

// NewWithConfig creates a logger with explicit options
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}
