package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/metrics"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Health)
	r.Post("/bundle-adjust", handler.BundleAdjust)
	r.Handle("/metrics", metrics.Handler())
	return r
}
