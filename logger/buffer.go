package logger

import (
	"fmt"
	"sync"
	"time"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time
	Level     string // INFO, ERROR, DEBUG, or empty for plain Printf lines
	Source    string // worker or component that produced the line
	Message   string
}

// LogBuffer is a thread-safe ring of the most recent log entries
type LogBuffer struct {
	entries []LogEntry
	maxSize int
	mu      sync.RWMutex
}

// NewLogBuffer creates a new log buffer
func NewLogBuffer(maxSize int) *LogBuffer {
	return &LogBuffer{
		entries: make([]LogEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends an entry, evicting the oldest once maxSize is reached
func (lb *LogBuffer) Add(level, source, message string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries = append(lb.entries, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
	})

	if len(lb.entries) > lb.maxSize {
		lb.entries = lb.entries[len(lb.entries)-lb.maxSize:]
	}
}

// Len returns the number of buffered entries
func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return len(lb.entries)
}

// GetRecent returns up to count of the most recent entries, oldest first
func (lb *LogBuffer) GetRecent(count int) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	count = max(0, min(count, len(lb.entries)))
	result := make([]LogEntry, count)
	copy(result, lb.entries[len(lb.entries)-count:])
	return result
}

// Clear removes all log entries from the buffer
func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.entries = make([]LogEntry, 0, lb.maxSize)
}

// FormatLogEntry formats a log entry for display
func FormatLogEntry(entry LogEntry) string {
	level := ""
	if entry.Level != "" {
		level = entry.Level + " "
	}
	return fmt.Sprintf("[%s] %s%s: %s",
		entry.Timestamp.Format("15:04:05"),
		level,
		entry.Source,
		entry.Message,
	)
}
