// Package cmdlogger is the slog handler used by the command line tool.
//
// Messages go to stdout, errors to stderr, one line per record with the
// record attributes appended as key=value pairs.
package cmdlogger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type Handler struct {
	mu     *sync.Mutex
	state  *state
	attrs  []slog.Attr
	group  string
	stdout io.Writer
	stderr io.Writer
}

// state is shared between a handler and the handlers derived from it.
type state struct {
	level              slog.Leveler
	hasErrored         bool
	everythingToStderr bool
}

var _ slog.Handler = &Handler{}

func New(stdout, stderr io.Writer) *Handler {
	return &Handler{
		mu:     &sync.Mutex{},
		state:  &state{level: slog.LevelInfo},
		stdout: stdout,
		stderr: stderr,
	}
}

// SendEverythingToStderr tells the handler to send all records to stderr
// regardless of their level.
//
// Used when stdout carries machine readable output.
func (h *Handler) SendEverythingToStderr() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state.everythingToStderr = true
}

func (h *Handler) SetLevel(level slog.Leveler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state.level = level
}

// HasErrored reports whether a record at [slog.LevelError] has been handled.
func (h *Handler) HasErrored() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state.hasErrored
}

func (h *Handler) writer(level slog.Level) io.Writer {
	if h.state.everythingToStderr || level >= slog.LevelError {
		return h.stderr
	}

	return h.stdout
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return level >= h.state.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.group, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	if record.Level >= slog.LevelError {
		h.state.hasErrored = true
	}
	_, err := io.WriteString(h.writer(record.Level), sb.String())

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}

	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}

	return &clone
}

func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}

		return
	}

	fmt.Fprintf(sb, " %s=%v", key, a.Value.Any())
}
