package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/mapper"
	"yt-coach-be/internal/model"
	"yt-coach-be/internal/repository/contract"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptRepositoryImpl) Create(ctx context.Context, transcript *entity.Transcript) error {
	m := r.mapper.ToModel(transcript)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*transcript = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Transcript, error) {
	var m model.Transcript
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptRepositoryImpl) FindByVideoId(ctx context.Context, videoId string) (*entity.Transcript, error) {
	var m model.Transcript
	if err := r.db.WithContext(ctx).First(&m, "video_id = ?", videoId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Transcript, error) {
	var models []*model.Transcript
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Transcript, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TranscriptRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transcript{}).Count(&count).Error
	return count, err
}
