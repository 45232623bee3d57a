// Package ops exposes a small HTTP surface for health checks and runtime
// stats. It is separate from the catalog protocol and disabled unless an
// address is configured.
package ops

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/popcatalog/popcatalog-go/internal/cache"
)

// NewServer builds the ops HTTP server.
func NewServer(addr string, c *cache.Cache) *http.Server {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"cache_entries": c.Len(),
		})
	})

	return &http.Server{Addr: addr, Handler: r}
}
