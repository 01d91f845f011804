package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// Init builds the process-wide zap logger and installs it as the global.
// Production config (JSON, ISO8601) when ENV=production, console otherwise.
func Init() {
	var logger *zap.Logger
	var err error

	if os.Getenv("ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)
}

// L returns the global logger.
func L() *zap.Logger {
	return zap.L()
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = zap.L().Sync()
}
