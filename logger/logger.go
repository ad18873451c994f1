// Package logger provides a configurable logger that can write to multiple outputs.
// Init must be called early in the application lifecycle before using other logger functions.
// Functions like AddOutput and SetVerbose will return errors if called before Init.
//
// Messages follow the "[source] message" convention (sources such as
// "search" or "worker-3"), which LogBufferWriter uses to tag buffered entries.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

var errNotInitialized = errors.New("logger not initialized: call logger.Init() first")

// Logger is a configurable logger that can write to multiple outputs
type Logger struct {
	mu      sync.Mutex
	outputs []io.Writer
	prefix  string
	enabled bool
	verbose bool
}

var (
	globalLogger *Logger
	once         sync.Once
	globalBuffer *LogBuffer
	bufferOnce   sync.Once
)

// GetGlobalLogBuffer returns the global log buffer
func GetGlobalLogBuffer() *LogBuffer {
	bufferOnce.Do(func() {
		globalBuffer = NewLogBuffer(1000) // Keep last 1000 log entries
	})
	return globalBuffer
}

// New creates a standalone logger writing to out (nil for no output)
func New(prefix string, out io.Writer) *Logger {
	outputs := []io.Writer{}
	if out != nil {
		outputs = append(outputs, out)
	}
	return &Logger{
		outputs: outputs,
		prefix:  prefix,
		enabled: true,
	}
}

// Init initializes the global logger. Commands that print results on stdout
// pass os.Stderr so logs never mix with the report.
func Init(prefix string, out io.Writer) {
	once.Do(func() {
		globalLogger = New(prefix, out)
	})
}

// AddOutput adds an additional output writer to the logger
func (l *Logger) AddOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, w)
}

// RemoveOutput removes an output writer from the logger
func (l *Logger) RemoveOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.outputs[:0]
	for _, output := range l.outputs {
		if output != w {
			kept = append(kept, output)
		}
	}
	l.outputs = kept
}

// SetEnabled enables or disables all output
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// SetVerbose enables or disables debug messages
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// Printf formats a message and writes it, newline-terminated, to every output
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(fmt.Sprintf(format, v...))
}

// Debugf logs a debug message, dropped unless verbose
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	l.write(fmt.Sprintf("[DEBUG] "+format, v...))
}

// write must be called with l.mu held
func (l *Logger) write(msg string) {
	if !l.enabled || len(l.outputs) == 0 {
		return
	}

	// Remove trailing newline if present (we'll add it back)
	msg = strings.TrimSuffix(msg, "\n")
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s", l.prefix, msg)
	}

	line := []byte(msg + "\n")
	for _, output := range l.outputs {
		output.Write(line)
	}
}

// AddOutput adds an additional output writer (e.g., for TUI log buffer).
// Returns an error if called before Init.
func AddOutput(w io.Writer) error {
	if globalLogger == nil {
		return errNotInitialized
	}
	globalLogger.AddOutput(w)
	return nil
}

// RemoveOutput removes an output writer.
// Returns an error if called before Init.
func RemoveOutput(w io.Writer) error {
	if globalLogger == nil {
		return errNotInitialized
	}
	globalLogger.RemoveOutput(w)
	return nil
}

// SetEnabled enables or disables logging.
// Returns an error if called before Init.
func SetEnabled(enabled bool) error {
	if globalLogger == nil {
		return errNotInitialized
	}
	globalLogger.SetEnabled(enabled)
	return nil
}

// SetVerbose enables or disables debug logging.
// Returns an error if called before Init.
func SetVerbose(verbose bool) error {
	if globalLogger == nil {
		return errNotInitialized
	}
	globalLogger.SetVerbose(verbose)
	return nil
}

// Printf logs a formatted message
func Printf(format string, v ...interface{}) {
	if globalLogger == nil {
		// Fallback to standard log if not initialized
		log.Printf(format, v...)
		return
	}
	globalLogger.Printf(format, v...)
}

// Debugf logs a debug-level formatted message
func Debugf(format string, v ...interface{}) {
	if globalLogger == nil {
		return
	}
	globalLogger.Debugf(format, v...)
}

// Infof logs an info-level formatted message
func Infof(format string, v ...interface{}) {
	Printf("[INFO] "+format, v...)
}

// Info logs an info-level message
func Info(v ...interface{}) {
	Printf("[INFO] %s", fmt.Sprint(v...))
}

// Errorf logs an error-level formatted message
func Errorf(format string, v ...interface{}) {
	Printf("[ERROR] "+format, v...)
}

// Error logs an error-level message
func Error(v ...interface{}) {
	Printf("[ERROR] %s", fmt.Sprint(v...))
}

// GetGlobalLogger returns the global logger instance (for testing/debugging)
func GetGlobalLogger() *Logger {
	return globalLogger
}
