// Package logging provides the process's diagnostic logger: a slog.Handler
// that colorizes level and message for a human reading stderr, the only
// stream diagnostics may use — stdout is reserved for the NDJSON protocol.
// No source location, no field grouping, one color per level.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler is a minimal colorized slog.Handler writing one line per record.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	colors map[slog.Level]func(a ...any) string
	time   func(a ...any) string
}

// New returns a Handler writing to w at the given minimum level.
func New(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		time:  color.New(color.FgHiBlack).SprintFunc(),
		colors: map[slog.Level]func(a ...any) string{
			slog.LevelDebug: color.New(color.FgMagenta).SprintFunc(),
			slog.LevelInfo:  color.New(color.FgBlue).SprintFunc(),
			slog.LevelWarn:  color.New(color.FgYellow).SprintFunc(),
			slog.LevelError: color.New(color.FgRed, color.Bold).SprintFunc(),
		},
	}
}

// Default wires a ready-to-use *slog.Logger writing to w (stderr in
// cmd/atlantis).
func Default(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(New(w, level))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(h.time(r.Time.Format(time.RFC3339)))
	buf.WriteByte(' ')

	levelStr := fmt.Sprintf("%-5s", strings.ToUpper(r.Level.String()))
	if colorFn, ok := h.colors[r.Level]; ok {
		buf.WriteString(colorFn(levelStr))
	} else {
		buf.WriteString(levelStr)
	}
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	if len(attrs) > 0 {
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
		for _, a := range attrs {
			fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value)
		}
	}
	buf.WriteByte('\n')

	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &nh
}

// WithGroup is a no-op beyond key prefixing would require: this logger
// never groups, since the scheduler only ever logs flat tick/warning
// records. Present to satisfy slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h
}

// ParseLevel maps a config/flag string to a slog.Level, defaulting to
// Info for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
