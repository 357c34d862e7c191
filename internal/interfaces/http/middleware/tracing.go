package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// untracedPaths are health checks that would only add noise to traces
var untracedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Tracing returns the otelgin middleware. When disabled it is a no-op.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool { return !untracedPaths[r.URL.Path] }),
	)
}

// TracingAttributes tags the request span with the request id and the
// authenticated actor, and marks server errors. It must run after both
// Tracing and the JWT middleware.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if id := logger.GetRequestID(ctx); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if actor := logger.GetActorID(ctx); actor != "" {
			span.SetAttributes(attribute.String("actor_id", actor))
		}
		if role := logger.GetRole(ctx); role != "" {
			span.SetAttributes(attribute.String("actor_role", role))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
