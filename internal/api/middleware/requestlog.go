package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userHeader      = "X-Forwarded-User"
)

type requestIDCtxKey struct{}

// RequestID returns the request ID stored in ctx by RequestLog, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// RequestLog returns Echo middleware that logs one structured line per
// request. It reuses the caller's X-Request-ID or generates one, echoes it
// in the response and stores it in the request context. Server errors are
// logged at warn level.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDCtxKey{}, reqID)))
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if user := req.Header.Get(userHeader); user != "" {
				attrs = append(attrs, "user", user)
			}
			log.Log(req.Context(), level, "request", attrs...)

			return nil
		}
	}
}
