// Package watch polls the upstream API for complaints with live subscribers
// and publishes a change event whenever one moves. It covers upstreams that
// cannot deliver hooks.
package watch

import (
    "context"
    "fmt"
    "time"

    "civigate/internal/model"
)

type Worker struct {
    // Fetch loads the current state of one complaint.
    Fetch func(ctx context.Context, id string) (model.Complaint, error)
    // Active reports which complaints currently have subscribers.
    Active func() []string
    // Publish fans a change out to subscribers.
    Publish func(id string, typ string, data map[string]any)

    Interval time.Duration
    Stop     chan struct{}

    seen  map[string]string
    skip  map[string]int // ticks left to skip before the next fetch
    fails map[string]int // consecutive fetch failures
}

func NewWorker(fetch func(ctx context.Context, id string) (model.Complaint, error), active func() []string, publish func(id, typ string, data map[string]any), interval time.Duration) *Worker {
    if interval <= 0 { interval = 10 * time.Second }
    return &Worker{
        Fetch:    fetch,
        Active:   active,
        Publish:  publish,
        Interval: interval,
        Stop:     make(chan struct{}),
        seen:     map[string]string{},
        skip:     map[string]int{},
        fails:    map[string]int{},
    }
}

func (w *Worker) Start() {
    go func() {
        ticker := time.NewTicker(w.Interval)
        defer ticker.Stop()
        for {
            select {
            case <-w.Stop:
                return
            case <-ticker.C:
                w.pollOnce()
            }
        }
    }()
}

func (w *Worker) pollOnce() {
    ctx, cancel := context.WithTimeout(context.Background(), w.Interval)
    defer cancel()
    active := w.Active()
    activeSet := make(map[string]struct{}, len(active))
    for _, id := range active {
        activeSet[id] = struct{}{}
        if n := w.skip[id]; n > 0 { w.skip[id] = n - 1; continue }
        c, err := w.Fetch(ctx, id)
        if err != nil {
            // skip 1, 2, 4, 8 ticks on consecutive failures
            w.fails[id]++
            if w.fails[id] > 4 { w.fails[id] = 4 }
            w.skip[id] = 1 << (w.fails[id] - 1)
            continue
        }
        delete(w.skip, id)
        delete(w.fails, id)
        fp := fingerprint(c)
        if old, ok := w.seen[id]; ok && old != fp {
            w.Publish(id, "complaint.updated", map[string]any{
                "complaintId": id,
                "status":      c.Status,
                "stage":       c.CurrentStage,
                "ts":          time.Now().UTC().Format(time.RFC3339),
            })
        }
        w.seen[id] = fp
    }
    // Forget complaints nobody watches anymore.
    for id := range w.seen {
        if _, ok := activeSet[id]; !ok { delete(w.seen, id) }
    }
    for id := range w.fails {
        if _, ok := activeSet[id]; !ok {
            delete(w.fails, id)
            delete(w.skip, id)
        }
    }
}

// fingerprint captures the fields whose change matters to a viewer.
func fingerprint(c model.Complaint) string {
    updated := ""
    if !c.UpdatedAt.IsZero() { updated = c.UpdatedAt.Format(time.RFC3339Nano) }
    return fmt.Sprintf("%s|%s|%d|%s", c.Status, c.CurrentStage, len(c.Responses), updated)
}
