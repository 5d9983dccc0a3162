// Package upstream is the typed client for the external complaints and
// content API. The gateway owns no complaint state; every read and every
// action goes through here, with the caller's bearer token passed through
// opaquely.
package upstream

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "civigate/internal/metrics"
    "civigate/internal/model"
)

type Client struct {
    base     string
    http     *http.Client
    retryMax int
}

func New(base string, timeout time.Duration, retryMax int) *Client {
    if retryMax < 1 { retryMax = 1 }
    return &Client{
        base:     strings.TrimRight(base, "/"),
        http:     &http.Client{Timeout: timeout},
        retryMax: retryMax,
    }
}

// APIError mirrors a non-2xx upstream response so handlers can relay the
// status instead of flattening everything to 500.
type APIError struct {
    Status int
    Title  string
    Detail string
}

func (e *APIError) Error() string {
    if e.Detail != "" { return fmt.Sprintf("upstream %d: %s: %s", e.Status, e.Title, e.Detail) }
    return fmt.Sprintf("upstream %d: %s", e.Status, e.Title)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
    ae, ok := err.(*APIError)
    return ok && ae.Status == http.StatusNotFound
}

// do issues one API call. GETs retry on transport errors and 5xx with
// doubling backoff; mutating calls are sent exactly once (no deduplication
// upstream, so a blind retry could double-apply an action).
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body []byte, out any) error {
    attempts := 1
    if method == http.MethodGet { attempts = c.retryMax }
    var lastErr error
    for attempt := 0; attempt < attempts; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(100 * time.Millisecond << (attempt - 1)):
            }
        }
        var rd io.Reader
        if body != nil { rd = bytes.NewReader(body) }
        req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
        if err != nil { return err }
        if body != nil { req.Header.Set("Content-Type", "application/json") }
        if token != "" { req.Header.Set("Authorization", "Bearer "+token) }
        start := time.Now()
        resp, err := c.http.Do(req)
        latency := float64(time.Since(start).Milliseconds())
        if err != nil {
            metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
            metrics.UpstreamLatency.WithLabelValues(endpoint, "error").Observe(latency)
            lastErr = err
            continue
        }
        data, err := io.ReadAll(resp.Body)
        _ = resp.Body.Close()
        class := fmt.Sprintf("%dxx", resp.StatusCode/100)
        metrics.UpstreamRequests.WithLabelValues(endpoint, class).Inc()
        metrics.UpstreamLatency.WithLabelValues(endpoint, class).Observe(latency)
        if err != nil {
            lastErr = err
            continue
        }
        if resp.StatusCode >= 500 && method == http.MethodGet {
            lastErr = decodeAPIError(resp.StatusCode, data)
            continue
        }
        if resp.StatusCode < 200 || resp.StatusCode >= 300 {
            return decodeAPIError(resp.StatusCode, data)
        }
        if out == nil { return nil }
        if err := json.Unmarshal(data, out); err != nil {
            return fmt.Errorf("decode %s response: %w", endpoint, err)
        }
        return nil
    }
    return lastErr
}

func decodeAPIError(status int, data []byte) error {
    ae := &APIError{Status: status, Title: http.StatusText(status)}
    var prob struct {
        Title  string `json:"title"`
        Detail string `json:"detail"`
    }
    if json.Unmarshal(data, &prob) == nil {
        if prob.Title != "" { ae.Title = prob.Title }
        ae.Detail = prob.Detail
    }
    return ae
}

// Complaints

func (c *Client) GetComplaint(ctx context.Context, token, id string) (model.Complaint, error) {
    var out model.Complaint
    err := c.do(ctx, "complaint_get", http.MethodGet, "/complaints/"+url.PathEscape(id), token, nil, &out)
    return out, err
}

func (c *Client) ListComplaints(ctx context.Context, token, status, cursor string, limit int) (model.ComplaintList, error) {
    q := url.Values{}
    if status != "" { q.Set("status", status) }
    if cursor != "" { q.Set("cursor", cursor) }
    if limit > 0 { q.Set("limit", strconv.Itoa(limit)) }
    path := "/complaints"
    if len(q) > 0 { path += "?" + q.Encode() }
    var out model.ComplaintList
    err := c.do(ctx, "complaint_list", http.MethodGet, path, token, nil, &out)
    return out, err
}

func (c *Client) Escalate(ctx context.Context, token, id, reason string) (model.Complaint, error) {
    body, _ := json.Marshal(model.EscalateRequest{Reason: reason})
    var out model.Complaint
    err := c.do(ctx, "complaint_escalate", http.MethodPost, "/complaints/"+url.PathEscape(id)+"/escalate", token, body, &out)
    return out, err
}

func (c *Client) Accept(ctx context.Context, token, id string) (model.Complaint, error) {
    var out model.Complaint
    err := c.do(ctx, "complaint_accept", http.MethodPost, "/complaints/"+url.PathEscape(id)+"/accept", token, []byte(`{}`), &out)
    return out, err
}

func (c *Client) Respond(ctx context.Context, token, id string, req model.RespondRequest) (model.Complaint, error) {
    body, _ := json.Marshal(req)
    var out model.Complaint
    err := c.do(ctx, "complaint_respond", http.MethodPost, "/complaints/"+url.PathEscape(id)+"/respond", token, body, &out)
    return out, err
}

// Submit forwards a multipart complaint submission (stage one or stage two)
// as received; attachments stay opaque to the gateway.
func (c *Client) Submit(ctx context.Context, token, contentType string, body io.Reader) (model.Complaint, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/complaints", body)
    if err != nil { return model.Complaint{}, err }
    req.Header.Set("Content-Type", contentType)
    if token != "" { req.Header.Set("Authorization", "Bearer "+token) }
    start := time.Now()
    resp, err := c.http.Do(req)
    latency := float64(time.Since(start).Milliseconds())
    if err != nil {
        metrics.UpstreamRequests.WithLabelValues("complaint_submit", "error").Inc()
        metrics.UpstreamLatency.WithLabelValues("complaint_submit", "error").Observe(latency)
        return model.Complaint{}, err
    }
    defer func() { _ = resp.Body.Close() }()
    data, err := io.ReadAll(resp.Body)
    class := fmt.Sprintf("%dxx", resp.StatusCode/100)
    metrics.UpstreamRequests.WithLabelValues("complaint_submit", class).Inc()
    metrics.UpstreamLatency.WithLabelValues("complaint_submit", class).Observe(latency)
    if err != nil { return model.Complaint{}, err }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return model.Complaint{}, decodeAPIError(resp.StatusCode, data)
    }
    var out model.Complaint
    if err := json.Unmarshal(data, &out); err != nil {
        return model.Complaint{}, fmt.Errorf("decode submit response: %w", err)
    }
    return out, nil
}

// Content

func (c *Client) ListBlogPosts(ctx context.Context, token string) ([]model.BlogPost, error) {
    var out struct{ Items []model.BlogPost `json:"items"` }
    err := c.do(ctx, "blog_list", http.MethodGet, "/blog", token, nil, &out)
    return out.Items, err
}

func (c *Client) GetBlogPost(ctx context.Context, token, id string) (model.BlogPost, error) {
    var out model.BlogPost
    err := c.do(ctx, "blog_get", http.MethodGet, "/blog/"+url.PathEscape(id), token, nil, &out)
    return out, err
}

func (c *Client) ListDocuments(ctx context.Context, token string) ([]model.DocumentGuide, error) {
    var out struct{ Items []model.DocumentGuide `json:"items"` }
    err := c.do(ctx, "documents_list", http.MethodGet, "/documents", token, nil, &out)
    return out.Items, err
}

func (c *Client) ListOffices(ctx context.Context, token string) ([]model.Office, error) {
    var out struct{ Items []model.Office `json:"items"` }
    err := c.do(ctx, "offices_list", http.MethodGet, "/offices", token, nil, &out)
    return out.Items, err
}

func (c *Client) OfficeAvailability(ctx context.Context, token, id string) (model.OfficeAvailability, error) {
    var out model.OfficeAvailability
    err := c.do(ctx, "office_availability", http.MethodGet, "/offices/"+url.PathEscape(id)+"/availability", token, nil, &out)
    return out, err
}

// Admin

func (c *Client) AdminStats(ctx context.Context, token, kifleketema, wereda string) (model.AdminStats, error) {
    q := url.Values{}
    if kifleketema != "" { q.Set("kifleketema", kifleketema) }
    if wereda != "" { q.Set("wereda", wereda) }
    path := "/admin/stats"
    if len(q) > 0 { path += "?" + q.Encode() }
    var out model.AdminStats
    err := c.do(ctx, "admin_stats", http.MethodGet, path, token, nil, &out)
    return out, err
}

// Ping checks upstream reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
    return c.do(ctx, "ping", http.MethodGet, "/healthz", "", nil, nil)
}
