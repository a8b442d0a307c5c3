package bootstrap

import (
	"net/http"

	"weather-cache/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InitRoutes builds the HTTP surface the front end calls.
func InitRoutes(weatherHandler *handlers.WeatherHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/weather", weatherHandler.GetWeather)
	r.Get("/status", weatherHandler.Status)

	return r
}
