package main

import (
	"log/slog"

	"github.com/jkim999/lawyer-search-engine/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("============================================")
	log.Info("    Lawsearch Colored Logger Demo")
	log.Info("============================================")
	log.Info("")

	log.Debug("Debug message - standard color")
	log.Info("Info message - standard color")
	log.Info("Persisting profiles to database - green!")
	log.Info("Profiles persisted successfully - also green!")
	log.Warn("Warning message - yellow!")
	log.Error("Error message - red!")

	log.Info("")
	log.Info("Database operations are highlighted in green:")
	log.Info("Persisting embeddings", "count", 42, "batch_size", 100)
	log.Info("Embeddings persisted", "duration", "2.5s")
	log.Info("Indexing profile text", "count", 156)
	log.Info("Index build complete", "duration", "1.8s")
}
