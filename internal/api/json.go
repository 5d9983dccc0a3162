package api

import (
    "encoding/json"
    "net/http"
    "strings"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
    Type     string `json:"type"`
    Title    string `json:"title"`
    Status   int    `json:"status"`
    Detail   string `json:"detail,omitempty"`
    Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// problemType derives a stable gateway URN from the title so clients can
// branch on the type without parsing prose.
func problemType(title string) string {
    slug := strings.ToLower(strings.TrimSpace(title))
    slug = strings.ReplaceAll(slug, " ", "-")
    if slug == "" { return "urn:civigate:problem:unknown" }
    return "urn:civigate:problem:" + slug
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
    writeJSON(w, status, Problem{
        Type:     problemType(title),
        Title:    title,
        Status:   status,
        Detail:   detail,
        Instance: instance,
    })
}
