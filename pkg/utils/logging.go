package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger provides structured console logging for the application
type Logger struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewLogger creates a new logger instance writing to stdout/stderr
func NewLogger(verbose bool) *Logger {
	return &Logger{verbose: verbose, out: os.Stdout, errOut: os.Stderr}
}

// NewLoggerTo creates a logger that writes every level to w
func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	return &Logger{verbose: verbose, out: w, errOut: w}
}

// Verbose reports whether debug output is enabled
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

// Success logs a success message in green
func (l *Logger) Success(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(l.out, green("✓ "+msg)+"\n", args...)
}

// Info logs an informational message in cyan
func (l *Logger) Info(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(l.out, cyan(msg)+"\n", args...)
}

// Warning logs a warning message in yellow
func (l *Logger) Warning(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(l.out, yellow("⚠ "+msg)+"\n", args...)
}

// Error logs an error message in red
func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l == nil {
		return
	}
	red := color.New(color.FgRed).SprintFunc()
	if err != nil {
		fmt.Fprintf(l.errOut, red("✗ "+msg+": %v")+"\n", append(args, err)...)
	} else {
		fmt.Fprintf(l.errOut, red("✗ "+msg)+"\n", args...)
	}
}

// Debug logs a debug message in dim/gray, only in verbose mode
func (l *Logger) Debug(msg string, args ...interface{}) {
	if !l.Verbose() {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(l.out, dim(msg)+"\n", args...)
}
