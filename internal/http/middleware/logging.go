// Package middleware contains the shared Gin middleware used by the HTTP layer.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"

	// maxQueryLogLength caps the logged query string so hostile clients
	// cannot bloat the log stream.
	maxQueryLogLength = 2048
)

// RequestID ensures every request carries a correlation ID. An incoming
// X-Request-ID is honored; otherwise a fresh UUID is generated. The ID is
// stored in the Gin context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger attaches a request-scoped zerolog logger to the context and emits a
// single structured line per request on completion. The log level is derived
// from the response status: 5xx logs at error, 4xx at warn, the rest at info.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := log.With().
			Str("request_id", asString(c.Value(requestIDKey))).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		ctx := context.WithValue(c.Request.Context(), loggerCtxKey{}, &reqLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", &reqLogger)

		c.Next()

		status := c.Writer.Status()
		evt := reqLogger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = reqLogger.Error()
		case status >= http.StatusBadRequest:
			evt = reqLogger.Warn()
		}
		evt.
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int("resp_bytes", c.Writer.Size()).
			Msg("http request")
	}
}

// Recovery converts panics into 500 responses instead of tearing down the
// process. The panic value and stack location are logged with the request
// logger so the crash is correlated to its request ID.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				LoggerFrom(c).Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"request_id": asString(c.Value(requestIDKey)),
					"code":       "internal_error",
					"message":    "internal server error",
				})
			}
		}()
		c.Next()
	}
}

type loggerCtxKey struct{}

// LoggerFrom returns the request-scoped logger set by Logger, falling back to
// the process-wide logger when none is attached (tests, background goroutines).
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if c != nil {
		if v, ok := c.Get("logger"); ok {
			if l, ok := v.(*zerolog.Logger); ok && l != nil {
				return l
			}
		}
		if l, ok := c.Request.Context().Value(loggerCtxKey{}).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return &log.Logger
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
