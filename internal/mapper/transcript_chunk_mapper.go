package mapper

import (
	"github.com/pgvector/pgvector-go"

	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/model"
)

type TranscriptChunkMapper struct{}

func NewTranscriptChunkMapper() *TranscriptChunkMapper {
	return &TranscriptChunkMapper{}
}

func (m *TranscriptChunkMapper) ToModel(e *entity.TranscriptChunk) *model.TranscriptChunk {
	return &model.TranscriptChunk{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		TranscriptId:   e.TranscriptId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *TranscriptChunkMapper) ToEntity(mo *model.TranscriptChunk) *entity.TranscriptChunk {
	return &entity.TranscriptChunk{
		Id:             mo.Id,
		Document:       mo.Document,
		EmbeddingValue: mo.EmbeddingValue.Slice(),
		TranscriptId:   mo.TranscriptId,
		ChunkIndex:     mo.ChunkIndex,
		CreatedAt:      mo.CreatedAt,
	}
}
