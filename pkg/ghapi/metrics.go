package ghapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

const metricsStartKey = "metrics_start_time"

// MetricsCollector records per-request metrics in Prometheus collectors.
type MetricsCollector struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	rateRemaining prometheus.Gauge
}

// NewMetricsCollector creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetricsCollector(reg prometheus.Registerer) (*MetricsCollector, error) {
	collector := &MetricsCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghapi_requests_total",
				Help: "Total API round trips by method and status",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghapi_request_duration_seconds",
				Help:    "Duration of API round trips",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rateRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ghapi_rate_limit_remaining",
			Help: "Remaining request quota reported by the last response",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{collector.requests, collector.duration, collector.rateRemaining} {
			err := reg.Register(c)
			if err != nil {
				return nil, fmt.Errorf("registering metrics: %w", err)
			}
		}
	}

	return collector, nil
}

// Requests returns the request counter, for inspection.
func (m *MetricsCollector) Requests() *prometheus.CounterVec {
	return m.requests
}

// RateRemaining returns the quota gauge.
func (m *MetricsCollector) RateRemaining() prometheus.Gauge {
	return m.rateRemaining
}

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metricsStartKey] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *RoundTripResponse) error {
		status := strconv.Itoa(resp.StatusCode)
		if resp.Error != nil {
			status = "transport_error"
		}

		collector.requests.WithLabelValues(req.Method, status).Inc()

		if startTime, ok := req.Metadata[metricsStartKey].(time.Time); ok {
			collector.duration.WithLabelValues(req.Method).Observe(time.Since(startTime).Seconds())
		}

		if resp.Headers != nil && resp.Headers.Get(constants.HeaderRateLimitRemaining) != "" {
			collector.rateRemaining.Set(float64(ParseRate(resp.Headers).Remaining))
		}

		return nil
	}
}
