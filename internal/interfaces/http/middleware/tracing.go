// Package middleware provides HTTP middleware for the budget service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorCodeKey is the gin context key handlers set when they answer with a
// failure envelope. Failures still answer HTTP 200, so the status code alone
// cannot mark the span.
const ErrorCodeKey = "error_code"

// maxCpIDLength bounds the cpid query value copied into span attributes
const maxCpIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// TracingWithConfig returns otelgin middleware. Span names follow
// "HTTP METHOD route_pattern", e.g. "PUT /api/v1/budget/fs/:ocid".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAttributes injects request_id, cp_id and oc_id into the server span.
// Place it after TracingWithConfig and RequestID.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if cpID := c.Query("cpid"); cpID != "" && len(cpID) <= maxCpIDLength {
		span.SetAttributes(attribute.String("cp_id", cpID))
	}
	if ocID := c.Param("ocid"); ocID != "" {
		span.SetAttributes(attribute.String("oc_id", ocID))
	}
}

// SpanErrorMarker marks the server span as failed when the handler answered
// with a failure envelope or the response status is 5xx.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("error.code", code))
			span.SetStatus(codes.Error, code)
			return
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, "Internal Server Error")
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}
