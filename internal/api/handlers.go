package api

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "civigate/internal/auth"
    "civigate/internal/lifecycle"
    "civigate/internal/metrics"
    "civigate/internal/model"
    "civigate/internal/upstream"
)

// complaintEnvelope pairs the raw upstream record with its computed
// projection so the UI renders from the view and never re-derives rules.
type complaintEnvelope struct {
    Complaint model.Complaint     `json:"complaint"`
    View      model.ComplaintView `json:"view"`
}

func envelope(c model.Complaint, viewerRole string, now time.Time) complaintEnvelope {
    return complaintEnvelope{Complaint: c, View: lifecycle.Project(&c, viewerRole, now)}
}

// upstreamProblem relays an upstream error with its original status where
// possible; transport failures surface as 502.
func upstreamProblem(w http.ResponseWriter, r *http.Request, err error, title string) {
    if ae, ok := err.(*upstream.APIError); ok {
        writeProblem(w, ae.Status, ae.Title, ae.Detail, r.URL.Path)
        return
    }
    writeProblem(w, http.StatusBadGateway, title, err.Error(), r.URL.Path)
}

// canView gates local reads, including cache hits that never reach the
// upstream authorization check. Jurisdiction filtering for location-scoped
// admin roles stays upstream.
func canView(pr auth.Principal, c *model.Complaint) bool {
    if isAdmin(pr.Role) || isHandlerRole(pr.Role) { return true }
    if pr.Role == lifecycle.RoleCitizen { return c.SubmitterID == "" || c.SubmitterID == pr.Subject }
    return false
}

// canStream is stricter than canView: live events go only to the
// complainant, the tier currently holding the complaint, and admin. Other
// tiers can still read the record; they do not get a feed of it.
func canStream(pr auth.Principal, c *model.Complaint) bool {
    if isAdmin(pr.Role) { return true }
    if isHandlerRole(pr.Role) { return pr.Role == c.CurrentHandler }
    if pr.Role == lifecycle.RoleCitizen { return c.SubmitterID == "" || c.SubmitterID == pr.Subject }
    return false
}

func (s *Server) fetchComplaint(ctx context.Context, token, id string) (model.Complaint, error) {
    key := "complaint:" + id
    if data, ok := s.Cache.Get(ctx, key); ok {
        var c model.Complaint
        if json.Unmarshal(data, &c) == nil { return c, nil }
    }
    c, err := s.Upstream.GetComplaint(ctx, token, id)
    if err != nil { return c, err }
    s.cacheComplaint(ctx, c)
    return c, nil
}

func (s *Server) cacheComplaint(ctx context.Context, c model.Complaint) {
    if c.ID == "" { return }
    if data, err := json.Marshal(c); err == nil {
        s.Cache.Set(ctx, "complaint:"+c.ID, data, s.Cfg.ComplaintTTL())
    }
}

// ComplaintsHandler handles GET/POST /v1/complaints
func (s *Server) ComplaintsHandler(w http.ResponseWriter, r *http.Request) {
    pr, err := s.getPrincipal(r)
    if err != nil { writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path); return }
    switch r.Method {
    case http.MethodGet:
        status := r.URL.Query().Get("status")
        cursor := r.URL.Query().Get("cursor")
        limit := 100
        if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
        lst, err := s.Upstream.ListComplaints(r.Context(), bearerToken(r), status, cursor, limit)
        if err != nil { upstreamProblem(w, r, err, "List complaints failed"); return }
        now := time.Now()
        items := make([]complaintEnvelope, 0, len(lst.Items))
        for _, c := range lst.Items {
            items = append(items, envelope(c, pr.Role, now))
        }
        writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": lst.NextCursor})
    case http.MethodPost:
        // New complaint or second-stage submission, forwarded as received.
        if !s.limiter.Allow(pr.Subject) { writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "action rate limit exceeded", r.URL.Path); return }
        ct := r.Header.Get("Content-Type")
        if !strings.HasPrefix(ct, "multipart/form-data") {
            writeProblem(w, http.StatusUnsupportedMediaType, "Unsupported Media Type", "multipart/form-data required", r.URL.Path)
            return
        }
        c, err := s.Upstream.Submit(r.Context(), bearerToken(r), ct, r.Body)
        if err != nil { upstreamProblem(w, r, err, "Submit complaint failed"); return }
        s.cacheComplaint(r.Context(), c)
        writeJSON(w, http.StatusCreated, envelope(c, pr.Role, time.Now()))
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

// ComplaintByIDHandler handles GET /v1/complaints/{id}, the action endpoints
// /escalate, /accept, /respond, and the SSE stream /events/stream.
func (s *Server) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
    rest := strings.TrimPrefix(r.URL.Path, "/v1/complaints/")
    if rest == r.URL.Path || rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    pr, err := s.getPrincipal(r)
    if err != nil { writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path); return }

    if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
        s.streamComplaintEvents(w, r, pr, id)
        return
    }
    if len(parts) > 1 {
        s.complaintAction(w, r, pr, id, parts[1])
        return
    }

    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    c, err := s.fetchComplaint(r.Context(), bearerToken(r), id)
    if err != nil { upstreamProblem(w, r, err, "Fetch complaint failed"); return }
    if !canView(pr, &c) { writeProblem(w, http.StatusForbidden, "Forbidden", "not authorized for this complaint", r.URL.Path); return }
    writeJSON(w, http.StatusOK, envelope(c, pr.Role, time.Now()))
}

// complaintAction forwards a mutating action upstream, then refreshes the
// cache from the response and fans out an update event. Post-action state is
// never served from before the upstream response arrived.
func (s *Server) complaintAction(w http.ResponseWriter, r *http.Request, pr auth.Principal, id, action string) {
    if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if !s.limiter.Allow(pr.Subject) {
        writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "action rate limit exceeded", r.URL.Path)
        return
    }
    token := bearerToken(r)
    var c model.Complaint
    var err error
    switch action {
    case "escalate":
        var req model.EscalateRequest
        if r.Body != nil { _ = json.NewDecoder(r.Body).Decode(&req) }
        c, err = s.Upstream.Escalate(r.Context(), token, id, req.Reason)
    case "accept":
        if !(pr.Role == lifecycle.RoleCitizen || isAdmin(pr.Role)) {
            writeProblem(w, http.StatusForbidden, "Forbidden", "citizen or admin required", r.URL.Path)
            return
        }
        c, err = s.Upstream.Accept(r.Context(), token, id)
    case "respond":
        if !(isHandlerRole(pr.Role) || isAdmin(pr.Role)) {
            writeProblem(w, http.StatusForbidden, "Forbidden", "handler role required", r.URL.Path)
            return
        }
        var req model.RespondRequest
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
        if strings.TrimSpace(req.Response) == "" {
            writeProblem(w, http.StatusBadRequest, "Missing response", "response text required", r.URL.Path)
            return
        }
        c, err = s.Upstream.Respond(r.Context(), token, id, req)
    default:
        writeProblem(w, http.StatusNotFound, "Not Found", "unknown action "+action, r.URL.Path)
        return
    }
    if err != nil { upstreamProblem(w, r, err, "Complaint action failed"); return }

    s.Cache.Delete(r.Context(), "complaint:"+id)
    s.cacheComplaint(r.Context(), c)
    s.Broker.Publish(id, Event{Type: "complaint." + actionEventSuffix(action), Data: map[string]any{
        "complaintId": id,
        "status":      c.Status,
        "stage":       c.CurrentStage,
        "ts":          time.Now().UTC().Format(time.RFC3339),
    }})
    writeJSON(w, http.StatusOK, envelope(c, pr.Role, time.Now()))
}

func actionEventSuffix(action string) string {
    switch action {
    case "escalate": return "escalated"
    case "accept": return "accepted"
    case "respond": return "responded"
    }
    return "updated"
}

// streamComplaintEvents serves the SSE stream for one complaint.
func (s *Server) streamComplaintEvents(w http.ResponseWriter, r *http.Request, pr auth.Principal, id string) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    c, err := s.fetchComplaint(r.Context(), bearerToken(r), id)
    if err != nil { upstreamProblem(w, r, err, "Fetch complaint failed"); return }
    if !canStream(pr, &c) {
        writeProblem(w, http.StatusForbidden, "Forbidden", "not authorized for complaint events", r.URL.Path)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path); return }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    ch := s.Broker.Subscribe(id)
    defer s.Broker.Unsubscribe(id, ch)
    metrics.StreamSubscribers.Inc()
    defer metrics.StreamSubscribers.Dec()
    // initial heartbeat
    fmt.Fprintf(w, "event: heartbeat\n")
    fmt.Fprintf(w, "data: {\"complaintId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
    flusher.Flush()
    notify := r.Context().Done()
    for {
        select {
        case <-notify:
            return
        case evt := <-ch:
            b, _ := json.Marshal(evt.Data)
            fmt.Fprintf(w, "event: %s\n", evt.Type)
            fmt.Fprintf(w, "data: %s\n\n", string(b))
            flusher.Flush()
        case <-time.After(15 * time.Second):
            fmt.Fprintf(w, "event: heartbeat\n")
            fmt.Fprintf(w, "data: {\"complaintId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
            flusher.Flush()
        }
    }
}

// AdminStatsHandler handles GET /v1/admin/stats
func (s *Server) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/admin/stats" || r.Method != http.MethodGet {
        writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
        return
    }
    pr, err := s.getPrincipal(r)
    if err != nil { writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path); return }
    if !(isAdmin(pr.Role) || isHandlerRole(pr.Role)) {
        writeProblem(w, http.StatusForbidden, "Forbidden", "admin or handler role required", r.URL.Path)
        return
    }
    stats, err := s.Upstream.AdminStats(r.Context(), bearerToken(r), pr.Kifleketema, pr.Wereda)
    if err != nil { upstreamProblem(w, r, err, "Stats failed"); return }
    writeJSON(w, http.StatusOK, stats)
}

// Health

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
    defer cancel()
    if err := s.Upstream.Ping(ctx); err != nil {
        writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
