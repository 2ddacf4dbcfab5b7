package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/rs/zerolog"
)

const cartIDKey = "cart_id"

// requestLogger attaches the logger to the request context and writes one line and one
// metrics observation per request.
func requestLogger(logger zerolog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	logger = logging.For(logger, "http")

	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		m.ObserveRequest(c.Request.Method, route, status, elapsed)

		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", c.ClientIP()).
			Str(logging.CartID, c.GetString(cartIDKey)).
			Msg("request")
	}
}

// cartID resolves the caller's cart id from the request header, minting one when absent,
// and echoes it on the response.
func cartID(c *gin.Context) {
	raw := c.GetHeader(api.HeaderCartID)
	if raw == "" {
		raw = uuid.NewString()
	}

	id, err := domain.ParseCartID(raw)
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}

	c.Set(cartIDKey, id.String())
	c.Header(api.HeaderCartID, id.String())
	c.Next()
}

func cartIDFrom(c *gin.Context) domain.CartID {
	return domain.CartID(c.GetString(cartIDKey))
}

func recovered(c *gin.Context, v any) {
	writeError(c, fmt.Errorf("panic: %v", v))
	c.Abort()
}
