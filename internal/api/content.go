package api

import (
    "context"
    "encoding/json"
    "net/http"
    "strings"
)

// Public content is identical for every caller, so responses are cached as
// marshaled bytes keyed by path and replayed on hit.
func (s *Server) cachedContent(w http.ResponseWriter, r *http.Request, key string, fetch func(ctx context.Context) (any, error)) {
    if data, ok := s.Cache.Get(r.Context(), key); ok {
        w.Header().Set("Content-Type", "application/json")
        w.WriteHeader(http.StatusOK)
        w.Write(data)
        return
    }
    v, err := fetch(r.Context())
    if err != nil { upstreamProblem(w, r, err, "Content fetch failed"); return }
    data, err := json.Marshal(v)
    if err != nil { writeProblem(w, http.StatusInternalServerError, "Encode failed", err.Error(), r.URL.Path); return }
    s.Cache.Set(r.Context(), key, data, s.Cfg.ContentTTL())
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    w.Write(data)
}

// BlogHandler handles GET /v1/blog and /v1/blog/{id}
func (s *Server) BlogHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if _, err := s.getPrincipal(r); err != nil {
        writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
        return
    }
    token := bearerToken(r)
    rest := strings.TrimPrefix(r.URL.Path, "/v1/blog")
    rest = strings.Trim(rest, "/")
    if rest == "" {
        s.cachedContent(w, r, "content:blog", func(ctx context.Context) (any, error) {
            items, err := s.Upstream.ListBlogPosts(ctx, token)
            return map[string]any{"items": items}, err
        })
        return
    }
    s.cachedContent(w, r, "content:blog:"+rest, func(ctx context.Context) (any, error) {
        return s.Upstream.GetBlogPost(ctx, token, rest)
    })
}

// DocumentsHandler handles GET /v1/documents
func (s *Server) DocumentsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if _, err := s.getPrincipal(r); err != nil {
        writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
        return
    }
    token := bearerToken(r)
    s.cachedContent(w, r, "content:documents", func(ctx context.Context) (any, error) {
        items, err := s.Upstream.ListDocuments(ctx, token)
        return map[string]any{"items": items}, err
    })
}

// OfficesHandler handles GET /v1/offices and /v1/offices/{id}/availability
func (s *Server) OfficesHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if _, err := s.getPrincipal(r); err != nil {
        writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
        return
    }
    token := bearerToken(r)
    rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/offices"), "/")
    if rest == "" {
        s.cachedContent(w, r, "content:offices", func(ctx context.Context) (any, error) {
            items, err := s.Upstream.ListOffices(ctx, token)
            return map[string]any{"items": items}, err
        })
        return
    }
    parts := strings.Split(rest, "/")
    if len(parts) == 2 && parts[1] == "availability" {
        s.cachedContent(w, r, "content:offices:"+parts[0]+":availability", func(ctx context.Context) (any, error) {
            return s.Upstream.OfficeAvailability(ctx, token, parts[0])
        })
        return
    }
    writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
}
