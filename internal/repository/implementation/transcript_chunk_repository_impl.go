package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/mapper"
	"yt-coach-be/internal/model"
	"yt-coach-be/internal/repository/contract"
)

type TranscriptChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptChunkMapper
}

func NewTranscriptChunkRepository(db *gorm.DB) contract.TranscriptChunkRepository {
	return &TranscriptChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptChunkMapper(),
	}
}

func (r *TranscriptChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.TranscriptChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TranscriptChunkRepositoryImpl) DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("transcript_id = ?", transcriptId).Delete(&model.TranscriptChunk{}).Error
}

func (r *TranscriptChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TranscriptChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns chunks with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding_value <=> query_vector) to get the similarity back.
func (r *TranscriptChunkRepositoryImpl) SearchSimilarWithScore(
	ctx context.Context,
	embedding []float32,
	limit int,
	threshold float64,
) ([]*contract.ScoredTranscriptChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.TranscriptChunk
		VideoUrl   string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("transcript_chunks").
		Select("transcript_chunks.*, transcripts.video_url as video_url, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN transcripts ON transcripts.id = transcript_chunks.transcript_id").
		Where("transcript_chunks.deleted_at IS NULL").
		Where("transcripts.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredTranscriptChunk, len(results))
	for i, res := range results {
		e := r.mapper.ToEntity(&res.TranscriptChunk)
		e.VideoUrl = res.VideoUrl
		scored[i] = &contract.ScoredTranscriptChunk{
			Chunk:      e,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
