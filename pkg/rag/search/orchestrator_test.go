package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/repository/contract"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/pkg/embedding"

	"github.com/google/uuid"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type fakeChunkRepo struct {
	results []*contract.ScoredTranscriptChunk
	err     error

	gotLimit     int
	gotThreshold float64
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	return nil
}

func (f *fakeChunkRepo) DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error {
	return nil
}

func (f *fakeChunkRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredTranscriptChunk, error) {
	f.gotLimit = limit
	f.gotThreshold = threshold
	return f.results, f.err
}

type fakeUow struct {
	chunkRepo contract.TranscriptChunkRepository
}

func (f *fakeUow) Begin(ctx context.Context) error                              { return nil }
func (f *fakeUow) Commit() error                                                { return nil }
func (f *fakeUow) Rollback() error                                              { return nil }
func (f *fakeUow) TranscriptRepository() contract.TranscriptRepository          { return nil }
func (f *fakeUow) TranscriptChunkRepository() contract.TranscriptChunkRepository {
	return f.chunkRepo
}

type fakeFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func scoredChunk(text, videoURL string, index int, score float64) *contract.ScoredTranscriptChunk {
	return &contract.ScoredTranscriptChunk{
		Chunk: &entity.TranscriptChunk{
			Document:   text,
			VideoUrl:   videoURL,
			ChunkIndex: index,
		},
		Similarity: score,
	}
}

func TestRetrieveMapsAndDedupes(t *testing.T) {
	repo := &fakeChunkRepo{
		results: []*contract.ScoredTranscriptChunk{
			scoredChunk("first passage", "http://v1", 0, 0.9),
			scoredChunk("first passage", "http://v1", 4, 0.8), // exact duplicate text
			scoredChunk("second passage", "http://v2", 1, 0.7),
		},
	}

	o := NewOrchestrator(
		&fakeEmbedder{},
		&fakeFactory{uow: &fakeUow{chunkRepo: repo}},
		Config{TopK: 5, Threshold: 0.1},
		log.New(io.Discard, "", 0),
	)

	passages, err := o.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}

	if len(passages) != 2 {
		t.Fatalf("len = %d, want 2 after dedupe", len(passages))
	}
	if passages[0].Text != "first passage" || passages[0].SourceURL != "http://v1" {
		t.Errorf("passages[0] = %+v", passages[0])
	}
	if passages[1].Text != "second passage" || passages[1].Position != 1 {
		t.Errorf("passages[1] = %+v", passages[1])
	}

	if repo.gotLimit != 5 {
		t.Errorf("limit = %d, want 5", repo.gotLimit)
	}
	if repo.gotThreshold != 0.1 {
		t.Errorf("threshold = %v, want 0.1", repo.gotThreshold)
	}
}

func TestRetrieveEmptyIndexIsNotAnError(t *testing.T) {
	o := NewOrchestrator(
		&fakeEmbedder{},
		&fakeFactory{uow: &fakeUow{chunkRepo: &fakeChunkRepo{}}},
		DefaultConfig(),
		log.New(io.Discard, "", 0),
	)

	passages, err := o.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("len = %d, want 0", len(passages))
	}
}

func TestRetrieveEmbeddingFailurePropagates(t *testing.T) {
	o := NewOrchestrator(
		&fakeEmbedder{err: errors.New("quota exceeded")},
		&fakeFactory{uow: &fakeUow{chunkRepo: &fakeChunkRepo{}}},
		DefaultConfig(),
		log.New(io.Discard, "", 0),
	)

	if _, err := o.Retrieve(context.Background(), "query"); err == nil {
		t.Fatal("Retrieve succeeded, want error")
	}
}

func TestRetrieveSearchFailurePropagates(t *testing.T) {
	o := NewOrchestrator(
		&fakeEmbedder{},
		&fakeFactory{uow: &fakeUow{chunkRepo: &fakeChunkRepo{err: errors.New("db down")}}},
		DefaultConfig(),
		log.New(io.Discard, "", 0),
	)

	if _, err := o.Retrieve(context.Background(), "query"); err == nil {
		t.Fatal("Retrieve succeeded, want error")
	}
}
