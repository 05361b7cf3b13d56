// Command hirecs-server exposes the clustering engine as an HTTP job API,
// mirroring graph-viz-backend/main.go's server bootstrap: load config,
// build services, wire routes and middleware, serve with graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alutov/hirecs/pkg/apiserver"
	"github.com/alutov/hirecs/pkg/config"
	"github.com/alutov/hirecs/pkg/telemetry"
)

func main() {
	cfg := config.New()
	if path := os.Getenv("HIRECS_CONFIG"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			panic(err)
		}
	}

	logger := telemetry.New(cfg, "hirecs-server")
	logger.Info().Str("addr", cfg.ServerAddr()).Int("max_concurrent_jobs", cfg.MaxConcurrentJobs()).Msg("starting hirecs-server")

	jobs := apiserver.NewJobService(cfg.MaxConcurrentJobs(), logger)
	handlers := apiserver.NewHandlers(jobs, logger)
	router := apiserver.NewRouter(handlers, logger)

	server := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr()).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server shutdown complete")
}
