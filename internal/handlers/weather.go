// Package handlers exposes the lookup core over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"weather-cache/internal/models"
	"weather-cache/internal/weather"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// LookupService is the slice of the weather service the HTTP surface needs.
type LookupService interface {
	Lookup(ctx context.Context, rawLocation string) (models.Weather, error)
	Status(ctx context.Context) (string, error)
}

// WeatherHandler serves /weather and /status.
type WeatherHandler struct {
	service LookupService
	logger  zerolog.Logger
}

func NewWeatherHandler(service LookupService, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		logger:  logger.With().Str("component", "handlers.Weather").Logger(),
	}
}

type lookupRequest struct {
	Location string `validate:"required,max=128"`
}

// GetWeather handles GET /weather?location=<raw>.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	req := lookupRequest{Location: strings.TrimSpace(r.URL.Query().Get("location"))}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query parameter 'location' is required and at most 128 characters")
		return
	}

	record, err := h.service.Lookup(r.Context(), req.Location)
	if err != nil {
		h.logger.Error().Err(err).Str("location", req.Location).Msg("lookup failed")
		writeError(w, lookupStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Status handles GET /status for the operational health page.
func (h *WeatherHandler) Status(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.Status(r.Context())
	code := http.StatusOK
	if err != nil {
		h.logger.Error().Err(err).Msg("status probe failed")
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": msg})
}

// lookupStatus maps the failure taxonomy onto HTTP statuses so callers can
// tell cache-layer problems from upstream-layer ones without parsing strings.
func lookupStatus(err error) int {
	switch {
	case errors.Is(err, weather.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, weather.ErrCacheCorrupt):
		return http.StatusInternalServerError
	case errors.Is(err, weather.ErrUpstreamUnavailable),
		errors.Is(err, weather.ErrUpstreamRejected),
		errors.Is(err, weather.ErrSchemaMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
