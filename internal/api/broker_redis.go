package api

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so every gateway
// replica sees events published by any of them.
type RedisBroker struct {
    rdb *redis.Client
    mu  sync.Mutex
    // local subscription bookkeeping: Topics must reflect this instance's
    // live viewers, not the whole fleet
    local map[string]map[chan Event]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    return &RedisBroker{rdb: redis.NewClient(opt), local: map[string]map[chan Event]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(complaintID string) chan Event {
    ch := make(chan Event, 16)
    ctx := context.Background()
    ps := b.rdb.Subscribe(ctx, b.chanName(complaintID))
    // initial consume to ensure subscription
    _, _ = ps.Receive(ctx)
    b.mu.Lock()
    if b.local[complaintID] == nil { b.local[complaintID] = map[chan Event]*redis.PubSub{} }
    b.local[complaintID][ch] = ps
    b.mu.Unlock()
    go func() {
        defer close(ch)
        for msg := range ps.Channel() {
            var evt Event
            if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
                select { case ch <- evt: default: }
            }
        }
    }()
    return ch
}

func (b *RedisBroker) Unsubscribe(complaintID string, ch chan Event) {
    b.mu.Lock()
    if m := b.local[complaintID]; m != nil {
        if ps, ok := m[ch]; ok {
            _ = ps.Close() // closes ps.Channel, which ends the fanout goroutine
            delete(m, ch)
        }
        if len(m) == 0 { delete(b.local, complaintID) }
    }
    b.mu.Unlock()
}

func (b *RedisBroker) Publish(complaintID string, evt Event) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    data, _ := json.Marshal(evt)
    _ = b.rdb.Publish(ctx, b.chanName(complaintID), data).Err()
}

func (b *RedisBroker) Topics() []string {
    b.mu.Lock()
    out := make([]string, 0, len(b.local))
    for id := range b.local { out = append(out, id) }
    b.mu.Unlock()
    return out
}

func (b *RedisBroker) chanName(complaintID string) string { return "complaint:" + complaintID }
