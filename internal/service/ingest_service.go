package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"yt-coach-be/internal/config"
	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/pkg/logger"
	"yt-coach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ProgressBroadcaster receives ingestion progress events. The websocket hub
// implements it; a nil broadcaster is allowed for CLI runs.
type ProgressBroadcaster interface {
	BroadcastProgress(event dto.ProgressEvent)
}

type IIngestService interface {
	// Scan walks the playlist manifest, stores new transcripts and queues
	// their chunks for embedding.
	Scan(ctx context.Context, request *dto.ScanRequest) (*dto.ScanResult, error)
	Status(ctx context.Context) (*dto.IngestStatusResponse, error)
}

type ingestService struct {
	cfg        config.IngestConfig
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	hub        ProgressBroadcaster
	logger     logger.ILogger
}

func NewIngestService(
	cfg config.IngestConfig,
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	hub ProgressBroadcaster,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		cfg:        cfg,
		uowFactory: uowFactory,
		publisher:  publisher,
		hub:        hub,
		logger:     log,
	}
}

func (s *ingestService) Scan(ctx context.Context, request *dto.ScanRequest) (*dto.ScanResult, error) {
	manifestPath := s.cfg.ManifestPath
	if request != nil && request.ManifestPath != "" {
		manifestPath = request.ManifestPath
	}

	entries, err := s.readManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	s.broadcast(dto.ProgressEvent{
		Stage:   "scan",
		Message: fmt.Sprintf("Manifest lists %d videos", len(entries)),
	})

	result := &dto.ScanResult{Discovered: len(entries)}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	for _, video := range entries {
		existing, err := uow.TranscriptRepository().FindByVideoId(ctx, video.VideoId)
		if err != nil {
			return nil, fmt.Errorf("lookup video %s: %w", video.VideoId, err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		content, err := s.readTranscript(video.VideoId)
		if err != nil {
			s.logger.Warn("IngestService", "Transcript file missing", map[string]interface{}{
				"video_id": video.VideoId,
				"error":    err.Error(),
			})
			result.Missing = append(result.Missing, video.VideoId)
			continue
		}

		transcript := &entity.Transcript{
			Id:       uuid.New(),
			VideoId:  video.VideoId,
			VideoUrl: video.VideoUrl,
			Title:    video.Title,
			Content:  content,
			Metadata: map[string]interface{}{
				"playlist_url": s.cfg.PlaylistURL,
				"source":       "manifest",
			},
			CreatedAt: time.Now(),
		}

		if err := uow.TranscriptRepository().Create(ctx, transcript); err != nil {
			return nil, fmt.Errorf("store transcript %s: %w", video.VideoId, err)
		}

		if err := s.queueEmbedding(ctx, transcript.Id); err != nil {
			return nil, fmt.Errorf("queue embedding for %s: %w", video.VideoId, err)
		}

		s.broadcast(dto.ProgressEvent{
			Stage:   "scan",
			VideoId: video.VideoId,
			Title:   video.Title,
			Message: "Transcript stored, embedding queued",
		})

		result.Queued++
	}

	s.logger.Info("IngestService", "Scan completed", map[string]interface{}{
		"discovered": result.Discovered,
		"queued":     result.Queued,
		"skipped":    result.Skipped,
		"missing":    len(result.Missing),
	})

	return result, nil
}

func (s *ingestService) Status(ctx context.Context) (*dto.IngestStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	transcripts, err := uow.TranscriptRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transcripts: %w", err)
	}

	chunks, err := uow.TranscriptChunkRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	return &dto.IngestStatusResponse{
		Transcripts: transcripts,
		Chunks:      chunks,
	}, nil
}

func (s *ingestService) readManifest(path string) ([]dto.ManifestEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var entries []dto.ManifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	return entries, nil
}

func (s *ingestService) readTranscript(videoId string) (string, error) {
	path := filepath.Join(s.cfg.TranscriptsDir, videoId+".txt")
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *ingestService) queueEmbedding(ctx context.Context, transcriptId uuid.UUID) error {
	payload, err := json.Marshal(dto.EmbedTranscriptMessage{TranscriptId: transcriptId})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, payload)
}

func (s *ingestService) broadcast(event dto.ProgressEvent) {
	if s.hub == nil {
		return
	}
	event.Timestamp = time.Now()
	s.hub.BroadcastProgress(event)
}
