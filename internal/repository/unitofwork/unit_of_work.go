package unitofwork

import (
	"context"

	"yt-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TranscriptRepository() contract.TranscriptRepository
	TranscriptChunkRepository() contract.TranscriptChunkRepository
}

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
