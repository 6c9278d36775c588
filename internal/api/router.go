package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/prateekjain24/pmkit/internal/config"
	"github.com/prateekjain24/pmkit/internal/store"
)

// Handler bundles the dependencies of the HTTP API.
type Handler struct {
	store store.Store
	cfg   *config.Config
}

// NewHandler creates an API handler backed by the given store.
func NewHandler(st store.Store, cfg *config.Config) *Handler {
	return &Handler{store: st, cfg: cfg}
}

// NewRouter builds the chi router with the full endpoint surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{h.cfg.Server.AllowedOrigins},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimitMiddleware(newIPLimiter(h.cfg.Server.RatePerSecond, h.cfg.Server.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/rice", func(r chi.Router) {
			r.Post("/score", h.riceScore)
			r.Post("/compare", h.riceCompare)
		})
		r.Route("/market", func(r chi.Router) {
			r.Post("/topdown", h.marketTopDown)
			r.Post("/bottomup", h.marketBottomUp)
		})
		r.Post("/roi/calculate", h.roiCalculate)
		r.Route("/abtest", func(r chi.Router) {
			r.Post("/samplesize", h.abtestSampleSize)
			r.Post("/mde", h.abtestMDE)
			r.Post("/significance", h.abtestSignificance)
		})
		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.listHistory)
			r.Get("/{id}", h.getHistory)
			r.Delete("/{id}", h.deleteHistory)
		})
		r.Route("/layout", func(r chi.Router) {
			r.Get("/", h.getLayout)
			r.Put("/", h.saveLayout)
		})
	})

	return r
}
