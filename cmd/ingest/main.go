// Command ingest rebuilds the vector index from the data directory.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"gym-agent-be/internal/bootstrap"
	"gym-agent-be/internal/config"
	"gym-agent-be/internal/pkg/logger"

	"github.com/fatih/color"
)

func main() {
	reset := flag.Bool("reset", false, "clear the index and rebuild it even if it already has chunks")
	flag.Parse()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color.Cyan("Indexing documents from %s (%s vector store)\n", cfg.Storage.DataDir, cfg.Storage.VectorStore)

	s, closeStore, err := bootstrap.NewDocumentStore(ctx, cfg, sysLogger)
	if err != nil {
		color.Red("Failed to open document store: %v", err)
		os.Exit(1)
	}
	defer closeStore()

	before, err := s.Count(ctx)
	if err != nil {
		color.Red("Failed to read index: %v", err)
		os.Exit(1)
	}

	if before > 0 && !*reset {
		color.Yellow("Index already holds %d chunks, nothing to do (use -reset to rebuild)", before)
		return
	}

	start := time.Now()
	chunks, err := s.Rebuild(ctx)
	if err != nil {
		color.Red("Rebuild failed: %v", err)
		os.Exit(1)
	}

	color.Green("Indexed %d chunks in %s", chunks, time.Since(start).Round(time.Millisecond))
}
