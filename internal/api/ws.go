package api

import (
    "encoding/json"
    "net/http"
    "sync"
    "time"

    "github.com/gorilla/websocket"
)

// Subscription protocol over WebSocket for complaint updates: the client
// sends connection_init, then subscribe messages carrying a complaintId;
// events arrive as "next" frames until "complete".

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
    Type    string          `json:"type"`
    ID      string          `json:"id,omitempty"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

type wsSubscribePayload struct {
    ComplaintID string `json:"complaintId"`
}

// WSHandler handles /v1/ws
func (s *Server) WSHandler(w http.ResponseWriter, r *http.Request) {
    pr, err := s.getPrincipal(r)
    if err != nil {
        writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer func() { _ = conn.Close() }()

    // Track subscriptions: message id -> complaint and channel
    type sub struct {
        complaintID string
        ch          chan Event
    }
    subs := map[string]sub{}

    conn.SetReadLimit(1 << 20)
    _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
    conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

    // Serialize writes: the read loop, the keepalive goroutine and every
    // subscription fan-out share the connection, and gorilla allows only
    // one concurrent writer.
    var wmu sync.Mutex
    write := func(v any) error {
        wmu.Lock()
        defer wmu.Unlock()
        return conn.WriteJSON(v)
    }
    token := bearerToken(r)

    for {
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            break
        }
        _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
        switch msg.Type {
        case "connection_init":
            _ = write(wsMessage{Type: "connection_ack"})
            go func() {
                ticker := time.NewTicker(20 * time.Second)
                defer ticker.Stop()
                for range ticker.C {
                    if err := write(wsMessage{Type: "ping"}); err != nil {
                        return
                    }
                }
            }()
        case "ping":
            _ = write(wsMessage{Type: "pong"})
        case "subscribe":
            var pl wsSubscribePayload
            _ = json.Unmarshal(msg.Payload, &pl)
            if pl.ComplaintID == "" {
                _ = write(wsMessage{Type: "error", ID: msg.ID, Payload: []byte(`{"message":"complaintId required"}`)})
                _ = write(wsMessage{Type: "complete", ID: msg.ID})
                continue
            }
            // Same access rule as the SSE stream: complainant, current
            // handler tier, or admin.
            if !isAdmin(pr.Role) {
                c, err := s.fetchComplaint(r.Context(), token, pl.ComplaintID)
                if err != nil || !canStream(pr, &c) {
                    _ = write(wsMessage{Type: "error", ID: msg.ID, Payload: []byte(`{"message":"forbidden"}`)})
                    _ = write(wsMessage{Type: "complete", ID: msg.ID})
                    continue
                }
            }
            ch := s.Broker.Subscribe(pl.ComplaintID)
            subs[msg.ID] = sub{complaintID: pl.ComplaintID, ch: ch}
            go func(id string, c chan Event) {
                for evt := range c {
                    payload, _ := json.Marshal(map[string]any{"type": evt.Type, "data": evt.Data})
                    _ = write(wsMessage{Type: "next", ID: id, Payload: payload})
                }
                _ = write(wsMessage{Type: "complete", ID: id})
            }(msg.ID, ch)
        case "complete":
            if s0, ok := subs[msg.ID]; ok {
                s.Broker.Unsubscribe(s0.complaintID, s0.ch)
                delete(subs, msg.ID)
            }
        default:
            // ignore
        }
    }
    for id, s0 := range subs {
        s.Broker.Unsubscribe(s0.complaintID, s0.ch)
        delete(subs, id)
    }
}
