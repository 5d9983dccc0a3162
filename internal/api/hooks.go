package api

import (
    "encoding/json"
    "io"
    "net/http"
    "time"

    "github.com/google/uuid"

    "civigate/internal/hooksig"
)

type hookPayload struct {
    ComplaintID string `json:"complaintId"`
    Type        string `json:"type"`
}

// HooksHandler handles POST /v1/hooks/complaints. The upstream service posts
// here when a complaint changes; the signature header proves it was them.
// Accepted hooks invalidate the cache and fan out to live subscribers.
func (s *Server) HooksHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if s.Cfg.Hooks.Secret == "" {
        writeProblem(w, http.StatusServiceUnavailable, "Hooks disabled", "no hook secret configured", r.URL.Path)
        return
    }
    body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
    if err != nil { writeProblem(w, http.StatusBadRequest, "Read failed", err.Error(), r.URL.Path); return }
    sig := r.Header.Get("X-Hook-Signature")
    if !hooksig.Verify(s.Cfg.Hooks.Secret, body, sig) {
        writeProblem(w, http.StatusForbidden, "Invalid signature", "", r.URL.Path)
        return
    }
    var p hookPayload
    if err := json.Unmarshal(body, &p); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return
    }
    if p.ComplaintID == "" {
        writeProblem(w, http.StatusBadRequest, "Missing complaintId", "", r.URL.Path)
        return
    }
    evtType := p.Type
    if evtType == "" { evtType = "complaint.updated" }
    s.Cache.Delete(r.Context(), "complaint:"+p.ComplaintID)
    s.Broker.Publish(p.ComplaintID, Event{Type: evtType, Data: map[string]any{
        "eventId":     uuid.NewString(),
        "complaintId": p.ComplaintID,
        "ts":          time.Now().UTC().Format(time.RFC3339),
    }})
    writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
