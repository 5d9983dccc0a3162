package api

import (
    "sync"

    "golang.org/x/time/rate"
)

// actionLimiter throttles mutating complaint actions per principal. The UI
// disables a clicked button until the response lands, but that is advisory;
// this is the server-side backstop against double-clicks and escalate spam.
type actionLimiter struct {
    mu    sync.Mutex
    lims  map[string]*rate.Limiter
    limit rate.Limit
    burst int
}

func newActionLimiter(perMinute, burst int) *actionLimiter {
    return &actionLimiter{
        lims:  map[string]*rate.Limiter{},
        limit: rate.Limit(float64(perMinute) / 60.0),
        burst: burst,
    }
}

func (l *actionLimiter) Allow(subject string) bool {
    l.mu.Lock()
    lim, ok := l.lims[subject]
    if !ok {
        lim = rate.NewLimiter(l.limit, l.burst)
        l.lims[subject] = lim
        // crude bound so the map cannot grow without limit
        if len(l.lims) > 8192 {
            for k := range l.lims {
                if k != subject { delete(l.lims, k) }
                if len(l.lims) <= 4096 { break }
            }
        }
    }
    l.mu.Unlock()
    return lim.Allow()
}
