// Package config loads gateway configuration from an optional YAML file with
// environment overrides for deploy-time settings.
package config

import (
    "fmt"
    "os"
    "time"

    yaml "gopkg.in/yaml.v3"
)

type Config struct {
    Listen string `yaml:"listen"`

    Upstream struct {
        BaseURL string `yaml:"baseUrl"`
        Timeout string `yaml:"timeout"`
        // ServiceToken authenticates gateway-initiated calls (the watch
        // poller); user-initiated calls always carry the caller's token.
        ServiceToken string `yaml:"serviceToken"`
        RetryMax     int    `yaml:"retryMax"`
    } `yaml:"upstream"`

    Redis struct {
        URL string `yaml:"url"`
    } `yaml:"redis"`

    Cache struct {
        ComplaintTTL string `yaml:"complaintTtl"`
        ContentTTL   string `yaml:"contentTtl"`
    } `yaml:"cache"`

    Auth struct {
        Mode       string `yaml:"mode"` // dev, hmac, none
        HMACSecret string `yaml:"hmacSecret"`
    } `yaml:"auth"`

    Hooks struct {
        Secret string `yaml:"secret"`
    } `yaml:"hooks"`

    RateLimit struct {
        ActionsPerMinute int `yaml:"actionsPerMinute"`
        Burst            int `yaml:"burst"`
    } `yaml:"rateLimit"`

    Watch struct {
        Interval string `yaml:"interval"`
    } `yaml:"watch"`
}

// Load reads path when it exists, then applies environment overrides and
// defaults. A missing file is not an error; env-only deployments are normal.
func Load(path string) (*Config, error) {
    cfg := &Config{}
    if path != "" {
        data, err := os.ReadFile(path)
        if err == nil {
            if err := yaml.Unmarshal(data, cfg); err != nil {
                return nil, fmt.Errorf("parse %s: %w", path, err)
            }
        } else if !os.IsNotExist(err) {
            return nil, err
        }
    }
    if v := os.Getenv("PORT"); v != "" { cfg.Listen = ":" + v }
    if v := os.Getenv("UPSTREAM_URL"); v != "" { cfg.Upstream.BaseURL = v }
    if v := os.Getenv("UPSTREAM_SERVICE_TOKEN"); v != "" { cfg.Upstream.ServiceToken = v }
    if v := os.Getenv("REDIS_URL"); v != "" { cfg.Redis.URL = v }
    if v := os.Getenv("AUTH_MODE"); v != "" { cfg.Auth.Mode = v }
    if v := os.Getenv("AUTH_HMAC_SECRET"); v != "" { cfg.Auth.HMACSecret = v }
    if v := os.Getenv("HOOK_SECRET"); v != "" { cfg.Hooks.Secret = v }

    if cfg.Listen == "" { cfg.Listen = ":8080" }
    if cfg.Upstream.BaseURL == "" { cfg.Upstream.BaseURL = "http://localhost:9090" }
    if cfg.Upstream.RetryMax <= 0 { cfg.Upstream.RetryMax = 3 }
    if cfg.Auth.Mode == "" { cfg.Auth.Mode = "dev" }
    if cfg.RateLimit.ActionsPerMinute <= 0 { cfg.RateLimit.ActionsPerMinute = 30 }
    if cfg.RateLimit.Burst <= 0 { cfg.RateLimit.Burst = 5 }
    return cfg, nil
}

// UpstreamTimeout returns the upstream request timeout (default 5s).
func (c *Config) UpstreamTimeout() time.Duration { return durationOr(c.Upstream.Timeout, 5*time.Second) }

// ComplaintTTL returns how long complaint fetches stay cached (default 15s).
func (c *Config) ComplaintTTL() time.Duration { return durationOr(c.Cache.ComplaintTTL, 15*time.Second) }

// ContentTTL returns how long content fetches stay cached (default 5m).
func (c *Config) ContentTTL() time.Duration { return durationOr(c.Cache.ContentTTL, 5*time.Minute) }

// WatchInterval returns the poll interval for watched complaints (default 10s).
func (c *Config) WatchInterval() time.Duration { return durationOr(c.Watch.Interval, 10*time.Second) }

func durationOr(s string, d time.Duration) time.Duration {
    if s == "" { return d }
    if v, err := time.ParseDuration(s); err == nil && v > 0 { return v }
    return d
}
