package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CountryHandler struct {
	refreshUsecase domain.RefreshUsecase
	countryUsecase domain.CountryUsecase
	summaryPath    string
	logger         *slog.Logger
}

func NewCountryHandler(
	refreshUsecase domain.RefreshUsecase,
	countryUsecase domain.CountryUsecase,
	summaryPath string,
	logger *slog.Logger,
) *CountryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountryHandler{
		refreshUsecase: refreshUsecase,
		countryUsecase: countryUsecase,
		summaryPath:    summaryPath,
		logger:         logger,
	}
}

func (h *CountryHandler) RefreshCountries(w http.ResponseWriter, r *http.Request) {
	result, err := h.refreshUsecase.Refresh(r.Context())
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error:   "External data source unavailable",
				Details: "Could not fetch data from " + ue.Source,
			})
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Message:        "Country data refreshed successfully.",
		TotalCountries: result.TotalCountries,
	})
}

func (h *CountryHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	filter := domain.CountryFilter{
		Region:        r.URL.Query().Get("region"),
		CurrencyCode:  r.URL.Query().Get("currency"),
		SortByGDPDesc: r.URL.Query().Get("sort") == "gdp_desc",
	}

	countries, err := h.countryUsecase.ListCountries(filter)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	response := make([]countryResponse, 0, len(countries))
	for _, country := range countries {
		response = append(response, toCountryResponse(country))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *CountryHandler) GetCountryByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	country, err := h.countryUsecase.GetCountryByName(name)
	if err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Country not found"})
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCountryResponse(country))
}

func (h *CountryHandler) DeleteCountryByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.countryUsecase.DeleteCountryByName(name); err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Country not found"})
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Country deleted successfully"})
}

func (h *CountryHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.countryUsecase.GetStatus()
	if err != nil {
		if errors.Is(err, domain.ErrStatusNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Status not found"})
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		TotalCountries:  status.TotalCountries,
		LastRefreshedAt: status.LastRefreshedAt,
	})
}

func (h *CountryHandler) GetSummaryImage(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.summaryPath); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Summary image not found"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, h.summaryPath)
}

// internalError hides detail from the caller; the full error goes to the log.
func (h *CountryHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
