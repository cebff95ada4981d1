package contract

import (
	"context"

	"github.com/google/uuid"

	"yt-coach-be/internal/entity"
)

type TranscriptRepository interface {
	Create(ctx context.Context, transcript *entity.Transcript) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Transcript, error)
	FindByVideoId(ctx context.Context, videoId string) (*entity.Transcript, error)
	FindAll(ctx context.Context) ([]*entity.Transcript, error)
	Count(ctx context.Context) (int64, error)
}
