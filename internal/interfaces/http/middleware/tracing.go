// Package middleware provides the gin middleware of the itou HTTP server.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts one server span per request, named after the route pattern
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// SpanAttributes runs inside the Tracing span. Once the request is handled
// it tags the span with the request id and the caller, and marks 4xx/5xx
// responses as errors.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if requestID := c.GetString(RequestIDContextKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if p := GetPrincipal(c); p != nil {
			span.SetAttributes(
				attribute.Int64("user_id", p.UserID),
				attribute.Bool("auth.token", p.ViaToken),
			)
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
