package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ansdev/patternhub/internal/patternsvc"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *patternsvc.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pattern retrieval (read-only surface).
	r.Get("/patterns", h.ListPatterns)
	r.Get("/patterns/{name}", h.GetPattern)
	r.Get("/patterns/{name}/html", h.GetPatternHTML)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
