package main

import (
    "bufio"
    "context"
    "flag"
    "log"
    "net"
    "net/http"
    "os"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "civigate/internal/api"
    "civigate/internal/config"
    "civigate/internal/metrics"
    "civigate/internal/model"
    "civigate/internal/watch"
)

func main() {
    cfgPath := flag.String("config", defaultConfigPath(), "path to config file")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }

    srvDeps, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }

    metrics.RegisterDefault()

    mux := http.NewServeMux()

    // Complaints
    mux.HandleFunc("/v1/complaints", srvDeps.ComplaintsHandler)
    mux.HandleFunc("/v1/complaints/", srvDeps.ComplaintByIDHandler) // includes /escalate, /accept, /respond, /events/stream

    // Public content
    mux.HandleFunc("/v1/blog", srvDeps.BlogHandler)
    mux.HandleFunc("/v1/blog/", srvDeps.BlogHandler)
    mux.HandleFunc("/v1/documents", srvDeps.DocumentsHandler)
    mux.HandleFunc("/v1/offices", srvDeps.OfficesHandler)
    mux.HandleFunc("/v1/offices/", srvDeps.OfficesHandler)

    // Admin
    mux.HandleFunc("/v1/admin/stats", srvDeps.AdminStatsHandler)

    // Inbound hooks from the upstream service
    mux.HandleFunc("/v1/hooks/complaints", srvDeps.HooksHandler)

    // WebSocket subscriptions
    mux.HandleFunc("/v1/ws", srvDeps.WSHandler)

    // Health
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)

    // Metrics
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    // Poll watched complaints so streams stay live even when the upstream
    // cannot deliver hooks.
    watcher := watch.NewWorker(
        func(ctx context.Context, id string) (model.Complaint, error) {
            return srvDeps.Upstream.GetComplaint(ctx, cfg.Upstream.ServiceToken, id)
        },
        srvDeps.Broker.Topics,
        func(id, typ string, data map[string]any) {
            srvDeps.Cache.Delete(context.Background(), "complaint:"+id)
            srvDeps.Broker.Publish(id, api.Event{Type: typ, Data: data})
        },
        cfg.WatchInterval(),
    )
    watcher.Start()

    srv := &http.Server{
        Addr:              cfg.Listen,
        Handler:           logMiddleware(metricsMiddleware(mux)),
        ReadHeaderTimeout: 5 * time.Second,
    }

    log.Printf("gateway listening on %s (upstream %s)", cfg.Listen, cfg.Upstream.BaseURL)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}

func defaultConfigPath() string {
    if v := os.Getenv("CONFIG"); v != "" {
        return v
    }
    return "config.yaml"
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}

type statusWriter struct {
    http.ResponseWriter
    status int
}

func (w *statusWriter) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
    if f, ok := w.ResponseWriter.(http.Flusher); ok {
        f.Flush()
    }
}

// Hijack keeps WebSocket upgrades working through the wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    if h, ok := w.ResponseWriter.(http.Hijacker); ok {
        return h.Hijack()
    }
    return nil, nil, http.ErrNotSupported
}

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
        start := time.Now()
        next.ServeHTTP(sw, r)
        route := metricRoute(r.URL.Path)
        metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
    })
}

// metricRoute collapses per-id paths so label cardinality stays bounded.
func metricRoute(path string) string {
    switch {
    case path == "/v1/complaints":
        return "/v1/complaints"
    case len(path) > len("/v1/complaints/") && path[:len("/v1/complaints/")] == "/v1/complaints/":
        return "/v1/complaints/{id}"
    case len(path) > len("/v1/blog/") && path[:len("/v1/blog/")] == "/v1/blog/":
        return "/v1/blog/{id}"
    case len(path) > len("/v1/offices/") && path[:len("/v1/offices/")] == "/v1/offices/":
        return "/v1/offices/{id}"
    }
    return path
}
