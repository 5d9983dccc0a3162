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

    // UpstreamRequests counts calls to the complaints API by endpoint and outcome
    UpstreamRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "upstream_requests_total", Help: "Upstream API calls by endpoint and status class."},
        []string{"endpoint", "status"},
    )
    // UpstreamLatency tracks upstream call latencies in milliseconds
    UpstreamLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "upstream_request_latency_ms", Help: "Upstream API latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
        []string{"endpoint", "status"},
    )

    // StreamSubscribers gauges live SSE/WebSocket subscriptions
    StreamSubscribers = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "stream_subscribers", Help: "Live complaint event stream subscriptions."},
    )
)

// RegisterDefault registers collectors to the gateway registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(UpstreamRequests)
        Registry.MustRegister(UpstreamLatency)
        Registry.MustRegister(StreamSubscribers)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
