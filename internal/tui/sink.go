package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// slotState mirrors one in-flight download for display.
type slotState struct {
	Label   string
	Written int64
	Total   int64
	Active  bool
}

// trackerSink implements download.ProgressSink by recording the latest
// state for the UI to poll on its tick. Bubble Tea models cannot be
// mutated from worker goroutines, so polling a snapshot is the safe
// hand-off.
type trackerSink struct {
	mu    sync.Mutex
	slots []slotState
	done  int
	total int
}

func newTrackerSink(slots int) *trackerSink {
	return &trackerSink{slots: make([]slotState, slots)}
}

func (s *trackerSink) TrackStarted(slot int, label string, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.slots) {
		return
	}
	s.slots[slot] = slotState{Label: label, Total: total, Active: true}
}

func (s *trackerSink) TrackProgress(slot int, written, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.slots) {
		return
	}
	s.slots[slot].Written = written
	s.slots[slot].Total = total
}

func (s *trackerSink) TrackFinished(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.slots) {
		return
	}
	s.slots[slot].Active = false
}

func (s *trackerSink) BatchProgress(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = done
	s.total = total
}

// snapshot returns a copy of the current state.
func (s *trackerSink) snapshot() ([]slotState, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make([]slotState, len(s.slots))
	copy(slots, s.slots)
	return slots, s.done, s.total
}

// logTail is a slog.Handler keeping the most recent messages for the
// on-screen log.
type logTail struct {
	mu      sync.Mutex
	entries []string
	max     int
}

func newLogTail(max int) *logTail {
	return &logTail{max: max}
}

func (l *logTail) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (l *logTail) Handle(_ context.Context, r slog.Record) error {
	line := r.Message
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "track" || a.Key == "error" || a.Key == "url" {
			line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		}
		return true
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, line)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	return nil
}

func (l *logTail) WithAttrs([]slog.Attr) slog.Handler { return l }
func (l *logTail) WithGroup(string) slog.Handler      { return l }

func (l *logTail) tail() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// fanoutHandler forwards records to several handlers, so failures land
// both in errors.log and the on-screen tail.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}
