package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/application/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs a recording tracer provider for the test
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	previous := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(previous)
	})
	return sr
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracing(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(RequestID(), Tracing("itou-test"), SpanAttributes())
	router.GET("/api/v1/employee-records/", func(c *gin.Context) {
		c.Set(PrincipalKey, &identity.Principal{UserID: 42, ViaToken: true})
		c.Status(http.StatusOK)
	})
	router.GET("/search/siaes/results", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	t.Run("names the span after the route and tags the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employee-records/?page=2", nil)
		req.Header.Set(RequestIDHeader, "req-trace")
		router.ServeHTTP(httptest.NewRecorder(), req)

		spans := sr.Ended()
		require.NotEmpty(t, spans)
		span := spans[len(spans)-1]

		assert.Contains(t, span.Name(), "/api/v1/employee-records/")
		attrs := spanAttributes(span)
		assert.Equal(t, "req-trace", attrs["request_id"].AsString())
		assert.Equal(t, int64(42), attrs["user_id"].AsInt64())
		assert.True(t, attrs["auth.token"].AsBool())
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("marks client errors", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search/siaes/results", nil))

		spans := sr.Ended()
		require.NotEmpty(t, spans)
		span := spans[len(spans)-1]

		assert.Equal(t, codes.Error, span.Status().Code)
		assert.NotContains(t, spanAttributes(span), attribute.Key("user_id"))
	})
}
