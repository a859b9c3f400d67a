package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(handler *CountryHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/countries/refresh", handler.RefreshCountries)
	r.Get("/countries", handler.GetCountries)
	r.Get("/countries/image", handler.GetSummaryImage)
	r.Get("/countries/{name}", handler.GetCountryByName)
	r.Delete("/countries/{name}", handler.DeleteCountryByName)
	r.Get("/status", handler.GetStatus)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
