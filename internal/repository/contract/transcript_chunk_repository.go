package contract

import (
	"context"

	"github.com/google/uuid"

	"yt-coach-be/internal/entity"
)

// ScoredTranscriptChunk pairs a chunk with its cosine similarity to a query.
type ScoredTranscriptChunk struct {
	Chunk      *entity.TranscriptChunk
	Similarity float64
}

type TranscriptChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error
	DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// SearchSimilarWithScore returns the chunks nearest to the query vector,
	// most similar first, filtered by a similarity threshold. VideoUrl is
	// hydrated from the parent transcript.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredTranscriptChunk, error)
}
