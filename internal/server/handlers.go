package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/hikes/internal/content"
	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/version"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Pages   int    `json:"pages"`
	Clients int    `json:"clients"`
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handlePage)
	return s.addMiddleware(mux)
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:  "ok",
		Version: version.Short(),
		Pages:   len(s.Pages()),
		Clients: s.hub.count(),
	})
}

func (s *PreviewServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := content.Find(s.Pages(), r.URL.Path)
	switch {
	case errors.IsSecurityError(err):
		s.logger.Warn(r.Context(), err, "Rejected page request", "path", r.URL.Path)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	case err != nil:
		s.doc.Handler(notFound(r.URL.Path), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
		return
	}

	s.doc.Handler(page.Component(), templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		s.logger.Error(r.Context(), errors.WrapRender(err, "rendering page", page.URLPath()), "Render failed")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "render failed", http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

func notFound(path string) templ.Component {
	return templ.Raw(`<h1>Not found</h1><p>No walkthrough lives at <code>` + templ.EscapeString(path) + `</code>.</p>`)
}

// addMiddleware sets security headers and logs each request.
func (s *PreviewServer) addMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
