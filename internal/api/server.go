package api

import (
    "log"

    "civigate/internal/auth"
    "civigate/internal/cache"
    "civigate/internal/config"
    "civigate/internal/upstream"
)

type Server struct {
    Cfg      *config.Config
    Upstream *upstream.Client
    Cache    cache.Cache
    Broker   EventBroker
    Auth     *auth.Verifier
    limiter  *actionLimiter
}

// NewServer wires the gateway's collaborators. With no REDIS_URL the cache
// and broker are in-process, which is fine for a single replica.
func NewServer(cfg *config.Config) (*Server, error) {
    up := upstream.New(cfg.Upstream.BaseURL, cfg.UpstreamTimeout(), cfg.Upstream.RetryMax)
    var cc cache.Cache
    var broker EventBroker
    if cfg.Redis.URL != "" {
        rc, err := cache.NewRedis(cfg.Redis.URL)
        if err != nil { return nil, err }
        cc = rc
        rb, err := NewRedisBroker(cfg.Redis.URL)
        if err != nil { return nil, err }
        broker = rb
    } else {
        cc = cache.NewMemory()
        broker = NewBroker()
    }
    if cfg.Hooks.Secret == "" {
        log.Printf("hooks: no secret configured; /v1/hooks/complaints disabled")
    }
    return &Server{
        Cfg:      cfg,
        Upstream: up,
        Cache:    cc,
        Broker:   broker,
        Auth:     auth.NewVerifier(cfg.Auth.Mode, cfg.Auth.HMACSecret),
        limiter:  newActionLimiter(cfg.RateLimit.ActionsPerMinute, cfg.RateLimit.Burst),
    }, nil
}
