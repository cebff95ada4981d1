package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"yt-coach-be/internal/config"
	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTranscriptRepo is an in-memory TranscriptRepository for ingestion tests.
type memTranscriptRepo struct {
	byVideoId map[string]*entity.Transcript
}

func newMemTranscriptRepo() *memTranscriptRepo {
	return &memTranscriptRepo{byVideoId: make(map[string]*entity.Transcript)}
}

func (r *memTranscriptRepo) Create(ctx context.Context, transcript *entity.Transcript) error {
	r.byVideoId[transcript.VideoId] = transcript
	return nil
}

func (r *memTranscriptRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Transcript, error) {
	for _, t := range r.byVideoId {
		if t.Id == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTranscriptRepo) FindByVideoId(ctx context.Context, videoId string) (*entity.Transcript, error) {
	return r.byVideoId[videoId], nil
}

func (r *memTranscriptRepo) FindAll(ctx context.Context) ([]*entity.Transcript, error) {
	out := make([]*entity.Transcript, 0, len(r.byVideoId))
	for _, t := range r.byVideoId {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTranscriptRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byVideoId)), nil
}

type recordingPublisher struct {
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func writeIngestFixtures(t *testing.T, entries []dto.ManifestEntry, transcripts map[string]string) config.IngestConfig {
	t.Helper()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "videos.json")
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(manifestPath, raw, 0644))

	transcriptsDir := filepath.Join(dir, "transcripts")
	require.NoError(t, os.MkdirAll(transcriptsDir, 0755))
	for videoId, content := range transcripts {
		require.NoError(t, os.WriteFile(filepath.Join(transcriptsDir, videoId+".txt"), []byte(content), 0644))
	}

	return config.IngestConfig{
		ManifestPath:   manifestPath,
		TranscriptsDir: transcriptsDir,
		ChunkSize:      1500,
		ChunkOverlap:   200,
	}
}

func TestScanStoresNewTranscriptsAndQueuesEmbedding(t *testing.T) {
	cfg := writeIngestFixtures(t,
		[]dto.ManifestEntry{
			{VideoId: "vid1", VideoUrl: "http://youtube.com/watch?v=vid1", Title: "Episode 1"},
			{VideoId: "vid2", VideoUrl: "http://youtube.com/watch?v=vid2", Title: "Episode 2"},
		},
		map[string]string{
			"vid1": "transcript one",
			"vid2": "transcript two",
		},
	)

	repo := newMemTranscriptRepo()
	publisher := &recordingPublisher{}
	svc := NewIngestService(cfg, &fakeUowFactory{uow: &fakeUow{transcriptRepo: repo}}, publisher, nil, logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log")))

	result, err := svc.Scan(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Discovered)
	assert.Equal(t, 2, result.Queued)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Missing)
	assert.Len(t, publisher.payloads, 2)

	stored, err := repo.FindByVideoId(context.Background(), "vid1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "transcript one", stored.Content)
	assert.Equal(t, "Episode 1", stored.Title)

	var msg dto.EmbedTranscriptMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.NotEqual(t, uuid.Nil, msg.TranscriptId)
}

func TestScanSkipsAlreadyIngestedVideos(t *testing.T) {
	cfg := writeIngestFixtures(t,
		[]dto.ManifestEntry{
			{VideoId: "vid1", VideoUrl: "http://u1", Title: "Episode 1"},
		},
		map[string]string{"vid1": "transcript one"},
	)

	repo := newMemTranscriptRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Transcript{
		Id:      uuid.New(),
		VideoId: "vid1",
	}))

	publisher := &recordingPublisher{}
	svc := NewIngestService(cfg, &fakeUowFactory{uow: &fakeUow{transcriptRepo: repo}}, publisher, nil, logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log")))

	result, err := svc.Scan(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Queued)
	assert.Empty(t, publisher.payloads)
}

func TestScanReportsMissingTranscriptFiles(t *testing.T) {
	cfg := writeIngestFixtures(t,
		[]dto.ManifestEntry{
			{VideoId: "vid1", VideoUrl: "http://u1", Title: "Episode 1"},
			{VideoId: "ghost", VideoUrl: "http://u2", Title: "No File"},
		},
		map[string]string{"vid1": "transcript one"},
	)

	repo := newMemTranscriptRepo()
	svc := NewIngestService(cfg, &fakeUowFactory{uow: &fakeUow{transcriptRepo: repo}}, &recordingPublisher{}, nil, logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log")))

	result, err := svc.Scan(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Queued)
	assert.Equal(t, []string{"ghost"}, result.Missing)
}

func TestScanMissingManifestFails(t *testing.T) {
	cfg := config.IngestConfig{ManifestPath: filepath.Join(t.TempDir(), "absent.json")}
	svc := NewIngestService(cfg, &fakeUowFactory{uow: &fakeUow{}}, &recordingPublisher{}, nil, logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log")))

	_, err := svc.Scan(context.Background(), nil)
	assert.Error(t, err)
}
