package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// keepRecords is how many recent records a Handler retains.
const keepRecords = 20

// Sender receives log records as they are handled. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// LogMsg is a tea.Msg that represents a log message.
type LogMsg slog.Record

type recent struct {
	mu     sync.Mutex
	sender Sender
	logs   []slog.Record
}

// Handler is a slog.Handler that keeps the most recent records and forwards
// each one to an optional Sender.
type Handler struct {
	slog.Handler
	state *recent
}

// NewHandler wraps handler.
func NewHandler(handler slog.Handler) *Handler {
	return &Handler{
		Handler: handler,
		state:   &recent{},
	}
}

// Handle stores the record, forwards it, and passes it to the wrapped handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.state.mu.Lock()
	h.state.logs = append(h.state.logs, r.Clone())
	if len(h.state.logs) > keepRecords {
		h.state.logs = h.state.logs[1:]
	}
	sender := h.state.sender
	h.state.mu.Unlock()

	if sender != nil {
		sender.Send(LogMsg(r))
	}

	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

// Enabled also admits info records while a Sender is attached, so progress
// displays see them even when the wrapped handler is quieter.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.Handler.Enabled(ctx, level) {
		return true
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return h.state.sender != nil && level >= slog.LevelInfo
}

// WithAttrs keeps the wrapper so derived loggers share the same record buffer.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs), state: h.state}
}

// WithGroup keeps the wrapper so derived loggers share the same record buffer.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name), state: h.state}
}

// Logs returns a copy of the stored log records, oldest first.
func (h *Handler) Logs() []slog.Record {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	logs := make([]slog.Record, len(h.state.logs))
	copy(logs, h.state.logs)
	return logs
}

// SetOutput sets where handled records are forwarded. nil stops forwarding.
func (h *Handler) SetOutput(s Sender) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.sender = s
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Format renders a record as a single line: the message followed by key=value attrs.
func Format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	})
	return b.String()
}

var defaultHandler = NewHandler(slog.NewTextHandler(io.Discard, nil))

// Init wraps handler, installs it as the slog default, and returns the logger.
func Init(handler slog.Handler) *slog.Logger {
	defaultHandler = NewHandler(handler)
	logger := slog.New(defaultHandler)
	slog.SetDefault(logger)
	return logger
}

// SetOutput sets the forwarding target of the default handler.
func SetOutput(s Sender) {
	defaultHandler.SetOutput(s)
}

// Logs returns the stored log messages from the default logger.
func Logs() []slog.Record {
	return defaultHandler.Logs()
}

// OpenFile opens path for logging, truncating what a previous run left.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
