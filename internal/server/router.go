package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter wires the API routes. Reads are CORS-open to any origin;
// the write route additionally requires the shared API key.
func NewRouter(api *APIHandler, apiKey string, version string, logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	write := router.PathPrefix("/write").Subrouter()
	write.HandleFunc("", api.HandleWrite).Methods(http.MethodPost)
	write.Use(RequireAPIKey(apiKey, logger))

	router.HandleFunc("/read", api.HandleRead).Methods(http.MethodGet)
	router.HandleFunc("/history", api.HandleHistory).Methods(http.MethodGet)
	router.HandleFunc("/stats", api.HandleStats).Methods(http.MethodGet)
	router.HandleFunc("/health", api.HandleHealth(version)).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", APIKeyHeader},
	})

	return c.Handler(router)
}
