package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the gateway
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// InboundDeliveries counts inbound webhook deliveries by event type and outcome
	InboundDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_inbound_total", Help: "Inbound webhook deliveries by event type and outcome."},
		[]string{"event_type", "status"},
	)
	// HandleDuration tracks webhook handling latency per event type
	HandleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_handle_duration_seconds", Help: "Webhook handling duration in seconds.", Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5}},
		[]string{"event_type", "status"},
	)
)

// RegisterDefault registers collectors to the gateway registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(InboundDeliveries)
		Registry.MustRegister(HandleDuration)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
