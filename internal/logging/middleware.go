package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey holds a logger attached outside RequestLogger
	LoggerContextKey ContextKey = "logger"
	requestLogKey    ContextKey = "request_log"
)

// requestLog is the per-request state RequestLogger shares with the
// handlers below it. Requests are served on one goroutine, so no locking.
type requestLog struct {
	logger  *Logger
	userID  int64
	hasUser bool
}

// RequestLogger is a middleware that logs HTTP requests. Each request gets a
// logger tagged with its request id; once authentication resolves a user,
// the completion line and later handler logs carry user_id as well.
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rl := &requestLog{
				logger: logger.WithFields(map[string]any{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"remote_ip":  r.RemoteAddr,
				}),
			}
			rl.logger.Debug("request started")

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogKey, rl)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			rl.logger.Log(r.Context(), levelForStatus(status), "request completed", attrs...)
		})
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// SetUserID records the authenticated user for the current request.
// Outside RequestLogger it is a no-op.
func SetUserID(ctx context.Context, userID int64) {
	rl, ok := ctx.Value(requestLogKey).(*requestLog)
	if !ok || (rl.hasUser && rl.userID == userID) {
		return
	}
	rl.userID = userID
	rl.hasUser = true
	rl.logger = rl.logger.WithFields(map[string]any{"user_id": userID})
}

// UserIDFromContext returns the user recorded by SetUserID.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	rl, ok := ctx.Value(requestLogKey).(*requestLog)
	if !ok || !rl.hasUser {
		return 0, false
	}
	return rl.userID, true
}

// WithLogger stores a logger in the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext retrieves the request logger. Outside a request it
// falls back to a development logger.
func GetLoggerFromContext(ctx context.Context) *Logger {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		return rl.logger
	}
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return NewLogger(true)
}
