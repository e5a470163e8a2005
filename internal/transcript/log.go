// Package transcript holds the append-only session log shared by the
// segmenter (writer) and the console view (readers).
package transcript

import (
	"sync"
	"time"
)

type Entry struct {
	Speaker  string
	Text     string
	SpokenAt time.Time
}

type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewLog(seed ...Entry) *Log {
	entries := make([]Entry, len(seed))
	copy(entries, seed)
	return &Log{entries: entries}
}

// Append adds e to the end of the log and returns its index.
func (l *Log) Append(e Entry) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return len(l.entries) - 1
}

// Snapshot returns a copy that the caller may keep.
func (l *Log) Snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
