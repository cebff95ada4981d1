package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptChunk is one embedded slice of a video transcript. VideoUrl is
// hydrated from the parent transcript on search results.
type TranscriptChunk struct {
	Id             uuid.UUID
	TranscriptId   uuid.UUID
	VideoUrl       string
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
