package search

import (
	"context"
	"fmt"
	"log"

	"yt-coach-be/internal/repository/contract"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/pkg/embedding"
	"yt-coach-be/pkg/rag"
)

// Config encapsulates retrieval parameters
type Config struct {
	TopK      int
	Threshold float64
}

// DefaultConfig keeps the result count small to bound prompt size.
func DefaultConfig() Config {
	return Config{
		TopK:      3,
		Threshold: 0.0,
	}
}

// Orchestrator handles query embedding and vector search over the transcript
// index. It implements the pipeline's Retriever contract.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	config            Config
	logger            *log.Logger
}

var _ rag.Retriever = &Orchestrator{}

func NewOrchestrator(
	embeddingProvider embedding.EmbeddingProvider,
	uowFactory unitofwork.RepositoryFactory,
	config Config,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		config:            config,
		logger:            logger,
	}
}

// Retrieve embeds the query, runs cosine search over transcript chunks and
// returns the most relevant passages, deduplicated by exact text.
func (o *Orchestrator) Retrieve(ctx context.Context, query string) ([]rag.Passage, error) {
	embeddingRes, err := o.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := o.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.TranscriptChunkRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		o.config.TopK,
		o.config.Threshold,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	passages := dedupeByText(scored, o.logger)
	o.logger.Printf("[SEARCH] %d raw results, %d after dedupe", len(scored), len(passages))
	return passages, nil
}

// dedupeByText drops chunks whose text exactly matches an earlier, more
// relevant one. Ordering from the search (most relevant first) is preserved.
func dedupeByText(results []*contract.ScoredTranscriptChunk, logger *log.Logger) []rag.Passage {
	var passages []rag.Passage
	seen := make(map[string]bool)

	for i, res := range results {
		if seen[res.Chunk.Document] {
			logger.Printf("[SEARCH] Result %d: score=%.4f [DUPLICATE]", i+1, res.Similarity)
			continue
		}
		seen[res.Chunk.Document] = true

		passages = append(passages, rag.Passage{
			Text:      res.Chunk.Document,
			SourceURL: res.Chunk.VideoUrl,
			Position:  res.Chunk.ChunkIndex,
		})
	}

	return passages
}
