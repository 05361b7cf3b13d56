package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// SetupRoutes wires the clustering job resource under /api/v1, mirroring
// the path layout of graph-viz-backend/api/routes.go.
func SetupRoutes(router *mux.Router, h *Handlers) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.HealthCheck).Methods("GET")

	jobs := api.PathPrefix("/jobs").Subrouter()
	jobs.HandleFunc("", h.SubmitClustering).Methods("POST")
	jobs.HandleFunc("/{jobId}", h.GetJob).Methods("GET")
	jobs.HandleFunc("/{jobId}/result", h.GetJobResult).Methods("GET")
}

// NewRouter builds the fully wired mux.Router, applying the logging and
// recovery middleware plus rs/cors, the way graph-viz-backend/main.go wires
// its own router.Use stack.
func NewRouter(h *Handlers, logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()
	SetupRoutes(router, h)

	router.Use(loggingMiddleware(logger))
	router.Use(recoveryMiddleware(logger))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	})
	return c.Handler(router)
}
