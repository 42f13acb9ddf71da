// Package debuglog builds the optional debug/trace logger the driver
// passes into the parser (spec.md §1/§7: diagnostics are only ever
// debug-level, never an error; the engine itself takes no logger).
// Grounded on reusee-tai's logs/logger.go: log/slog fanned out across handlers via
// github.com/samber/slog-multi. Unlike that repo, there is no systemd
// journal handler here — this is a one-shot CLI batch tool, not a
// long-running service, so slog-journal has no host to report to (see
// DESIGN.md).
package debuglog

import (
	"context"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// RingHandler is a slog.Handler that retains the last capacity records in
// memory, overwriting the oldest on overflow. The driver keeps one
// regardless of -debug, so a failing run can dump recent diagnostics to
// stderr (see cmd/ntmsim's dumpRing) even when live debug output was off.
type RingHandler struct {
	attrs    []slog.Attr
	group    string
	capacity int
	records  []slog.Record
	next     int
	full     bool
}

// NewRingHandler returns a RingHandler retaining up to capacity records.
func NewRingHandler(capacity int) *RingHandler {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingHandler{capacity: capacity, records: make([]slog.Record, capacity)}
}

func (h *RingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *RingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.records[h.next] = r
	h.next = (h.next + 1) % h.capacity
	if h.next == 0 {
		h.full = true
	}
	return nil
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	clone.records = append([]slog.Record{}, h.records...)
	return &clone
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	clone.records = append([]slog.Record{}, h.records...)
	return &clone
}

// Records returns the retained records in chronological order (oldest
// first).
func (h *RingHandler) Records() []slog.Record {
	if !h.full {
		return append([]slog.Record{}, h.records[:h.next]...)
	}
	out := make([]slog.Record, 0, h.capacity)
	out = append(out, h.records[h.next:]...)
	out = append(out, h.records[:h.next]...)
	return out
}

// New builds the driver's logger. When debug is false it discards
// everything but the ring buffer snapshot is still available via ring;
// when true it additionally fans out to a text handler on stderr.
func New(debug bool, ring *RingHandler) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{ring}
	if debug {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
