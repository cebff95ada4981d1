package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"yt-coach-be/internal/config"
	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/pkg/logger"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/internal/service"
	"yt-coach-be/pkg/database"
	"yt-coach-be/pkg/embedding"
	embeddinghf "yt-coach-be/pkg/embedding/huggingface"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// collectingPublisher records queued transcript ids instead of handing them
// to the event bus, so the CLI can embed them synchronously afterwards.
type collectingPublisher struct {
	queued []uuid.UUID
}

func (p *collectingPublisher) Publish(ctx context.Context, payload []byte) error {
	var msg dto.EmbedTranscriptMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	p.queued = append(p.queued, msg.TranscriptId)
	return nil
}

func main() {
	color.Cyan("🚀 Transcript ingestion starting\n")

	// 1. Configuration & Database
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sysLogger := logger.NewIsolatedLogger("logs/ingest.log")

	// 2. Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embeddinghf.NewHuggingFaceProvider(cfg.Keys.HuggingFace, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE (%s)", cfg.Ai.EmbeddingModel)
	}

	// 3. Services (direct path, no event bus and no progress hub)
	collector := &collectingPublisher{}
	ingestService := service.NewIngestService(cfg.Ingest, uowFactory, collector, nil, sysLogger)
	consumerService := service.NewConsumerService(
		nil,
		cfg.Ingest.EmbedTopic,
		uowFactory,
		embeddingProvider,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
		nil,
	)

	ctx := context.Background()

	// 4. Scan the playlist manifest
	color.Yellow("\n[1/2] Scanning manifest %s", cfg.Ingest.ManifestPath)
	result, err := ingestService.Scan(ctx, nil)
	if err != nil {
		color.Red("Scan failed: %v", err)
		os.Exit(1)
	}

	color.Green("Discovered %d videos: %d queued, %d already ingested, %d missing transcripts",
		result.Discovered, result.Queued, result.Skipped, len(result.Missing))
	for _, videoId := range result.Missing {
		color.Red("  missing transcript file for %s", videoId)
	}

	// 5. Embed the queued transcripts
	color.Yellow("\n[2/2] Embedding %d transcripts", len(collector.queued))
	failures := 0
	for i, transcriptId := range collector.queued {
		chunks, err := consumerService.ProcessTranscript(ctx, transcriptId)
		if err != nil {
			color.Red("  [%d/%d] %s failed: %v", i+1, len(collector.queued), transcriptId, err)
			failures++
			continue
		}
		color.Green("  [%d/%d] %s embedded (%d chunks)", i+1, len(collector.queued), transcriptId, chunks)
	}

	if failures > 0 {
		color.Red("\nIngestion finished with %d failures", failures)
		os.Exit(1)
	}
	color.Cyan("\n✅ Ingestion completed")
}
