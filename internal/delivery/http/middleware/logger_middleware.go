package middleware

import (
	"log/slog"
	"time"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes one access log line per request. In debug mode every
// request is logged, otherwise only responses with status >= 400.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle must run after RequestIDMiddleware so the access line shares the request's logger.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Write the error response now so the logged status is the final one.
			c.Error(err)
		}

		status := c.Response().Status
		if !m.debug && status < 400 {
			return nil
		}

		req := c.Request()
		attrs := []slog.Attr{
			slog.String("method", req.Method),
			slog.String("route", c.Path()),
			slog.String("uri", req.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int64("bytes_out", c.Response().Size),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		deliverycontext.LoggerOr(req.Context(), m.logger).LogAttrs(req.Context(), levelForStatus(status), "HTTP request", attrs...)

		return nil
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
