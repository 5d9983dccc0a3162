package upstream

import (
    "context"
    "encoding/json"
    "io"
    "mime/multipart"
    "bytes"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"
)

func newClient(srv *httptest.Server, retry int) *Client {
    c := New(srv.URL, 2*time.Second, retry)
    c.http = srv.Client()
    c.http.Timeout = 2 * time.Second
    return c
}

func TestGetComplaintPassesToken(t *testing.T) {
    var gotAuth, gotPath string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotAuth = r.Header.Get("Authorization")
        gotPath = r.URL.Path
        _ = json.NewEncoder(w).Encode(map[string]any{"id": "c1", "status": "pending"})
    }))
    defer srv.Close()
    c := newClient(srv, 1)
    got, err := c.GetComplaint(context.Background(), "tok123", "c1")
    if err != nil { t.Fatalf("get: %v", err) }
    if got.ID != "c1" || got.Status != "pending" { t.Fatalf("complaint: %+v", got) }
    if gotAuth != "Bearer tok123" { t.Fatalf("auth header: %q", gotAuth) }
    if gotPath != "/complaints/c1" { t.Fatalf("path: %q", gotPath) }
}

func TestGetRetriesOn5xx(t *testing.T) {
    var calls int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if atomic.AddInt32(&calls, 1) == 1 { w.WriteHeader(500); return }
        _ = json.NewEncoder(w).Encode(map[string]any{"id": "c1"})
    }))
    defer srv.Close()
    c := newClient(srv, 3)
    if _, err := c.GetComplaint(context.Background(), "", "c1"); err != nil {
        t.Fatalf("expected retry to succeed: %v", err)
    }
    if atomic.LoadInt32(&calls) != 2 { t.Fatalf("calls: %d", calls) }
}

func TestMutationsNeverRetry(t *testing.T) {
    var calls int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&calls, 1)
        w.WriteHeader(500)
    }))
    defer srv.Close()
    c := newClient(srv, 3)
    if _, err := c.Escalate(context.Background(), "tok", "c1", "silence"); err == nil {
        t.Fatal("expected error")
    }
    if atomic.LoadInt32(&calls) != 1 { t.Fatalf("mutation retried: %d calls", calls) }
}

func TestNotFoundBecomesAPIError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(404)
        _ = json.NewEncoder(w).Encode(map[string]any{"title": "Complaint not found", "status": 404})
    }))
    defer srv.Close()
    c := newClient(srv, 1)
    _, err := c.GetComplaint(context.Background(), "", "nope")
    if !IsNotFound(err) { t.Fatalf("expected not found, got %v", err) }
    ae := err.(*APIError)
    if ae.Title != "Complaint not found" { t.Fatalf("title: %q", ae.Title) }
}

func TestEscalateSendsReason(t *testing.T) {
    var body map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewDecoder(r.Body).Decode(&body)
        _ = json.NewEncoder(w).Encode(map[string]any{"id": "c1", "status": "escalated"})
    }))
    defer srv.Close()
    c := newClient(srv, 1)
    got, err := c.Escalate(context.Background(), "tok", "c1", "no response in time")
    if err != nil { t.Fatalf("escalate: %v", err) }
    if got.Status != "escalated" { t.Fatalf("status: %s", got.Status) }
    if body["reason"] != "no response in time" { t.Fatalf("body: %v", body) }
}

func TestSubmitForwardsMultipart(t *testing.T) {
    var gotContentType, gotField string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotContentType = r.Header.Get("Content-Type")
        if err := r.ParseMultipartForm(1 << 20); err == nil {
            gotField = r.FormValue("title")
        }
        w.WriteHeader(201)
        _ = json.NewEncoder(w).Encode(map[string]any{"id": "c9", "status": "pending"})
    }))
    defer srv.Close()

    var buf bytes.Buffer
    mw := multipart.NewWriter(&buf)
    _ = mw.WriteField("title", "broken street light")
    fw, _ := mw.CreateFormFile("attachment", "photo.jpg")
    _, _ = io.WriteString(fw, "fakebytes")
    _ = mw.Close()

    c := newClient(srv, 1)
    got, err := c.Submit(context.Background(), "tok", mw.FormDataContentType(), &buf)
    if err != nil { t.Fatalf("submit: %v", err) }
    if got.ID != "c9" { t.Fatalf("complaint: %+v", got) }
    if gotField != "broken street light" { t.Fatalf("form field lost: %q", gotField) }
    if gotContentType == "" { t.Fatal("content type not forwarded") }
}

func TestListComplaintsQuery(t *testing.T) {
    var gotQuery string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotQuery = r.URL.RawQuery
        _ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "nextCursor": "abc"})
    }))
    defer srv.Close()
    c := newClient(srv, 1)
    lst, err := c.ListComplaints(context.Background(), "tok", "pending", "cur1", 25)
    if err != nil { t.Fatalf("list: %v", err) }
    if lst.NextCursor != "abc" { t.Fatalf("cursor: %q", lst.NextCursor) }
    for _, want := range []string{"status=pending", "cursor=cur1", "limit=25"} {
        if !contains(gotQuery, want) { t.Fatalf("query %q missing %q", gotQuery, want) }
    }
}

func contains(s, sub string) bool { return bytes.Contains([]byte(s), []byte(sub)) }

func TestPing(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/healthz" { w.WriteHeader(404); return }
        w.WriteHeader(200)
    }))
    defer srv.Close()
    c := newClient(srv, 1)
    if err := c.Ping(context.Background()); err != nil { t.Fatalf("ping: %v", err) }
}
