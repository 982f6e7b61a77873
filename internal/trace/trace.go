// Package trace is a compile-time-optional trace channel for the core.
//
// It is modeled on the teacher devkit's internal/debug.Logger but dropped
// the background goroutine and channel: per the scheduling model, no core
// component may spawn tasks internally, and hot paths must not pay the
// cost of formatting a trace message unless tracing is actually enabled.
package trace

import (
	"fmt"
)

// Level is the severity of a trace entry.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "NONE"
	}
}

// Component identifies the subsystem that emitted an entry.
type Component string

const (
	ComponentCPU       Component = "CPU"
	ComponentPPU       Component = "PPU"
	ComponentAPU       Component = "APU"
	ComponentMemory    Component = "Memory"
	ComponentCartridge Component = "Cartridge"
	ComponentInput     Component = "Input"
	ComponentScheduler Component = "Scheduler"
)

// Entry is a single recorded trace line.
type Entry struct {
	Component Component
	Level     Level
	Message   string
}

// Sink is a fixed-size circular buffer of recent entries, gated per
// component and by minimum level. Disabled components pay only the cost of
// a map lookup and a boolean check before the caller's Sprintf arguments
// would otherwise be evaluated — callers must guard with Enabled before
// building the message (see Tracef).
type Sink struct {
	entries    []Entry
	writeIndex int
	count      int
	maxEntries int

	componentEnabled map[Component]bool
	minLevel         Level
}

// NewSink creates a trace sink with the given ring-buffer capacity. All
// components are disabled by default; tracing is opt-in.
func NewSink(maxEntries int) *Sink {
	if maxEntries < 16 {
		maxEntries = 16
	}
	return &Sink{
		entries:          make([]Entry, maxEntries),
		maxEntries:       maxEntries,
		componentEnabled: make(map[Component]bool),
		minLevel:         LevelInfo,
	}
}

// Enable turns tracing on for a component.
func (s *Sink) Enable(c Component) { s.componentEnabled[c] = true }

// Disable turns tracing off for a component.
func (s *Sink) Disable(c Component) { s.componentEnabled[c] = false }

// SetMinLevel sets the minimum level recorded across all components.
func (s *Sink) SetMinLevel(l Level) { s.minLevel = l }

// Enabled reports whether a call site should bother formatting a message.
func (s *Sink) Enabled(c Component, l Level) bool {
	if s == nil {
		return false
	}
	return s.componentEnabled[c] && l >= s.minLevel
}

// Trace records a pre-formatted message. Callers should guard with Enabled
// first to avoid paying formatting cost on a disabled component.
func (s *Sink) Trace(c Component, l Level, message string) {
	if s == nil || !s.Enabled(c, l) {
		return
	}
	s.entries[s.writeIndex] = Entry{Component: c, Level: l, Message: message}
	s.writeIndex = (s.writeIndex + 1) % s.maxEntries
	if s.count < s.maxEntries {
		s.count++
	}
}

// Tracef is the formatted convenience form; it still checks Enabled first
// so disabled components never pay for Sprintf.
func (s *Sink) Tracef(c Component, l Level, format string, args ...interface{}) {
	if s == nil || !s.Enabled(c, l) {
		return
	}
	s.Trace(c, l, fmt.Sprintf(format, args...))
}

// Recent returns up to n most-recently recorded entries, oldest first.
func (s *Sink) Recent(n int) []Entry {
	if s == nil || s.count == 0 {
		return nil
	}
	if n > s.count {
		n = s.count
	}
	out := make([]Entry, n)
	start := (s.writeIndex - n + s.maxEntries) % s.maxEntries
	for i := 0; i < n; i++ {
		out[i] = s.entries[(start+i)%s.maxEntries]
	}
	return out
}

// Format renders an entry the way the teacher's LogEntry.Format did, minus
// the wall-clock timestamp (the core has no notion of wall-clock time of
// its own; the embedder's tick drives it).
func (e Entry) Format() string {
	return fmt.Sprintf("[%s] %s: %s", e.Component, e.Level, e.Message)
}
