package api

import (
    "sync"
)

// Event is a complaint update fanned out to live SSE/WebSocket viewers.
type Event struct {
    Type string         `json:"type"`
    Data map[string]any `json:"data"`
}

// EventBroker fans complaint events out to subscribers, keyed by complaint.
type EventBroker interface {
    Subscribe(complaintID string) chan Event
    Unsubscribe(complaintID string, ch chan Event)
    Publish(complaintID string, evt Event)
    // Topics lists complaint ids with live local subscribers; the watch
    // worker polls only these.
    Topics() []string
}

type Broker struct {
    mu   sync.Mutex
    subs map[string]map[chan Event]struct{} // complaintId -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe(complaintID string) chan Event {
    ch := make(chan Event, 8)
    b.mu.Lock()
    if b.subs[complaintID] == nil { b.subs[complaintID] = map[chan Event]struct{}{} }
    b.subs[complaintID][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

func (b *Broker) Unsubscribe(complaintID string, ch chan Event) {
    b.mu.Lock()
    if m := b.subs[complaintID]; m != nil {
        delete(m, ch)
        if len(m) == 0 { delete(b.subs, complaintID) }
    }
    b.mu.Unlock()
    close(ch)
}

func (b *Broker) Publish(complaintID string, evt Event) {
    b.mu.Lock()
    m := b.subs[complaintID]
    for ch := range m {
        select { case ch <- evt: default: }
    }
    b.mu.Unlock()
}

func (b *Broker) Topics() []string {
    b.mu.Lock()
    out := make([]string, 0, len(b.subs))
    for id := range b.subs { out = append(out, id) }
    b.mu.Unlock()
    return out
}
