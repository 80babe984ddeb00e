// Package tracelog is a small leveled wrapper over the standard log
// package. retrix carries no structured-logging dependency because its
// teacher does not either — see DESIGN.md.
package tracelog

import (
	"log"
	"os"
)

// Logger writes leveled lines to an underlying *log.Logger. The zero value
// is not usable; construct with New.
type Logger struct {
	std     *log.Logger
	verbose bool
}

// New builds a Logger writing to stderr with the given prefix. When verbose
// is false, Infof is a no-op; Warnf and Errorf always print.
func New(prefix string, verbose bool) *Logger {
	return &Logger{
		std:     log.New(os.Stderr, prefix, log.LstdFlags),
		verbose: verbose,
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l.verbose {
		l.std.Printf("INFO  "+format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	l.std.Printf("WARN  "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf("ERROR "+format, args...)
}
