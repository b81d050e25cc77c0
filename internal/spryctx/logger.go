package spryctx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// plainHandler writes a bare message, no timestamp or level prefix, to
// stderr. Debug records are dropped unless debugMode is set.
type plainHandler struct {
	writer    io.Writer
	debugMode bool
}

func (h *plainHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *plainHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *plainHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *plainHandler) WithGroup(_ string) slog.Handler      { return h }

type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// NewLogger builds the console logger, plus a rotated file logger when
// logFilePath is non-empty. The returned io.Closer must be closed (if
// non-nil) when the process exits to flush the log file.
func NewLogger(logFilePath string) (*slog.Logger, io.Closer, error) {
	debugMode := os.Getenv("SPRY_DEBUG") != ""
	handlers := []slog.Handler{&plainHandler{writer: os.Stderr, debugMode: debugMode}}

	var closer io.Closer
	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o750); err != nil {
			return nil, nil, fmt.Errorf("create log directory for %s: %w", logFilePath, err)
		}
		rotated := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     30,
		}
		closer = rotated
		handlers = append(handlers, slog.NewTextHandler(rotated, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(&fanoutHandler{handlers: handlers}), closer, nil
}
