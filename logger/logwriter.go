package logger

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"sync"
)

// LogBufferWriter is an io.Writer that feeds complete lines into a LogBuffer.
// It splits lines of the form "[LEVEL] [source] message", both tags optional.
type LogBufferWriter struct {
	buffer *LogBuffer
	buf    bytes.Buffer
	mu     sync.Mutex
}

var lineRegex = regexp.MustCompile(`^(?:\[(INFO|ERROR|DEBUG)\]\s*)?(?:\[([^\]]+)\]\s*)?(.*)$`)

// NewLogBufferWriter creates a new writer that writes to the log buffer
func NewLogBufferWriter(buffer *LogBuffer) *LogBufferWriter {
	return &LogBufferWriter{
		buffer: buffer,
	}
}

// Write implements io.Writer
func (lw *LogBufferWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	// Buffer until we get a newline
	lw.buf.Write(p)

	for {
		line, err := lw.buf.ReadString('\n')
		if err == io.EOF {
			// keep the partial line for the next write
			lw.buf.WriteString(line)
			break
		}
		if err != nil {
			return len(p), err
		}

		line = strings.TrimSuffix(line, "\n")
		if len(line) == 0 {
			continue
		}

		level, source, message := parseLine(line)
		lw.buffer.Add(level, source, message)
	}

	return len(p), nil
}

func parseLine(line string) (level, source, message string) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "system", line
	}
	level, source, message = m[1], m[2], m[3]
	if source == "" {
		source = "system"
	}
	return level, source, message
}
