// Package logger wraps log/slog the way the rest of this project's
// retrieval pack wraps it: a text handler over a mutex-guarded writer,
// with an independent debug toggle that also mirrors everything to
// stderr.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is a slog.Handler that writes formatted lines to an
// underlying writer and, when debug is set (or the record is above
// Debug level), also to stderr.
type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.String())
		return true
	})
	line := strings.Join(strs, " ") + "\n"
	b := []byte(line)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// SetDebug toggles whether Debug-level records are mirrored to stderr.
func (h *Handler) SetDebug(debug bool) {
	h.debug = debug
}

// New builds a *slog.Logger over the given writer (may be nil to write
// only to stderr when a record is above Debug, or always when debug is
// true).
func New(w io.Writer, opts *slog.HandlerOptions, debug bool) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelInfo}
	}
	inner := w
	if inner == nil {
		inner = io.Discard
	}
	return slog.New(&Handler{
		out:   w,
		h:     slog.NewTextHandler(inner, opts),
		mu:    &sync.Mutex{},
		debug: debug,
	})
}

// Discard returns a logger that drops every record; useful for tests
// that don't care about phase tracing.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
