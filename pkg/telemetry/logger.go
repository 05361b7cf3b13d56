// Package telemetry builds the zerolog.Logger every other package receives
// by injection, mirroring the teacher's Config.CreateLogger and the console
// writer setup in graph-clustering-backend/src2/main.go.
package telemetry

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/alutov/hirecs/pkg/config"
)

// New builds a console-writer zerolog.Logger at the level named in cfg,
// falling back to info on an unparsable level string.
func New(cfg *config.Config, service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", service).Logger()
}
