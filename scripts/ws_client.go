// Package main runs a demo WebSocket client for complaint events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	complaintID := os.Getenv("COMPLAINT_ID")
	if complaintID == "" {
		log.Fatal("COMPLAINT_ID required")
	}
	log.Printf("Complaint ID: %s", complaintID)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/ws"}
	hdr := http.Header{}
	hdr.Set("X-Role", "admin")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	// connection_init
	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	// subscribe to complaint events
	pl, _ := json.Marshal(map[string]any{"complaintId": complaintID})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
		}
	}()

	// Trigger an event via accept
	time.Sleep(500 * time.Millisecond)
	accReq, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/v1/complaints/%s/accept", base, complaintID), bytes.NewReader([]byte("{}")))
	accReq.Header.Set("Content-Type", "application/json")
	accReq.Header.Set("X-Role", "admin")
	_, _ = http.DefaultClient.Do(accReq)

	// Wait briefly to receive a few messages
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
