package middleware

import (
	"log/slog"

	deliverycontext "passport/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds client-supplied IDs before they reach logs and events.
const maxRequestIDLength = 128

// RequestIDMiddleware tags each request with an ID and a logger scoped to it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process reuses the caller's X-Request-Id when it is usable and generates one otherwise.
// The scoped logger also records the client address so store and query logs can be
// traced back through the proxy chain.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		requestID := req.Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("client_ip", c.RealIP()),
		}
		if chain := req.Header.Get(echo.HeaderXForwardedFor); chain != "" {
			attrs = append(attrs, slog.String("forwarded_for", chain))
		}

		ctx := deliverycontext.WithRequestID(req.Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, m.logger.With(attrs...))
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}
