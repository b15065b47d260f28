package notifier

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is the kind of a notification
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notifier surfaces the outcome of a user action
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Notification is a single surfaced message
type Notification struct {
	Level Level
	Text  string
	At    time.Time
}

// Printer writes notifications to a terminal stream, one per line
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "✓ %s\n", msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "✗ %s\n", msg)
}

// Recorder keeps the most recent notifications in memory. The TUI reads the
// latest one for its status line.
type Recorder struct {
	mu      sync.Mutex
	max     int
	entries []Notification
	now     func() time.Time
}

// NewRecorder creates a Recorder holding at most max entries (minimum 1)
func NewRecorder(max int) *Recorder {
	if max < 1 {
		max = 1
	}
	return &Recorder{max: max, now: time.Now}
}

func (r *Recorder) Success(msg string) {
	r.add(LevelSuccess, msg)
}

func (r *Recorder) Error(msg string) {
	r.add(LevelError, msg)
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Notification{Level: level, Text: msg, At: r.now()})
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
}

// Latest returns the most recent notification, if any
func (r *Recorder) Latest() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return Notification{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// All returns a copy of the recorded notifications, oldest first
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear drops every recorded notification
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
