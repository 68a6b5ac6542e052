package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/procurement/budget/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
}

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
}

func newHTTPMetrics(mp *telemetry.MeterProvider) (*httpMetrics, error) {
	meter := mp.Meter("http.server")

	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requestTotal: requestTotal, requestDuration: requestDuration}, nil
}

// HTTPMetrics counts requests and records their latency per route. Failure
// envelopes answer HTTP 200, so the request counter also carries the error
// code handlers leave under ErrorCodeKey.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	metrics, err := newHTTPMetrics(cfg.MeterProvider)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		metrics.requestDuration.RecordDuration(ctx, time.Since(start), attrs...)

		attrs = append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		if code := c.GetString(ErrorCodeKey); code != "" {
			attrs = append(attrs, telemetry.AttrErrorCode.String(code))
		}
		metrics.requestTotal.Inc(ctx, attrs...)
	}
}
