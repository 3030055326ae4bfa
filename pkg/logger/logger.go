// Package logger is the process-wide structured logger built on log/slog.
//
// Handlers and services should log through WithCtx so every line carries the
// request_id injected by the request logging middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/neubistro/bistro/config"
)

var L *slog.Logger

func init() {
	Setup(config.AppEnv(), os.Stdout)
}

// Setup rebuilds the base logger: JSON at info level for production,
// human-readable text at debug level for everything else.
func Setup(env string, w io.Writer) {
	var handler slog.Handler

	switch strings.ToLower(env) {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler).With("service", "bistro")
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx for WithCtx to find.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
