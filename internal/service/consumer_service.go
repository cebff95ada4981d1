package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/pkg/embedding"
	"yt-coach-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error

	// ProcessTranscript chunks and embeds one stored transcript, replacing
	// any chunks from a previous run. Exposed for the CLI ingest path.
	ProcessTranscript(ctx context.Context, transcriptId uuid.UUID) (int, error)
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	chunkSize         int
	chunkOverlap      int
	hub               ProgressBroadcaster
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	chunkSize int,
	chunkOverlap int,
	hub ProgressBroadcaster,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
		hub:               hub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedTranscriptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	chunks, err := cs.ProcessTranscript(ctx, payload.TranscriptId)
	if err != nil {
		log.Printf("[ERROR] Failed to process transcript %s: %v", payload.TranscriptId, err)
		cs.broadcast(dto.ProgressEvent{
			Stage:   "error",
			Message: err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[SUCCESS] Transcript processed: %d chunks for TranscriptId: %s", chunks, payload.TranscriptId)
	msg.Ack()
}

func (cs *consumerService) ProcessTranscript(ctx context.Context, transcriptId uuid.UUID) (int, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	transcript, err := uow.TranscriptRepository().FindById(ctx, transcriptId)
	if err != nil {
		return 0, err
	}
	if transcript == nil {
		// Transcript deleted between publish and consume, nothing to do.
		log.Printf("[WARN] Transcript not found: %s", transcriptId)
		return 0, nil
	}

	log.Printf("[INFO] Generating embeddings for transcript %s (content length: %d)", transcriptId, len(transcript.Content))

	chunks := utils.SplitText(transcript.Content, cs.chunkSize, cs.chunkOverlap)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	newChunks := make([]*entity.TranscriptChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return 0, err
		}

		newChunks = append(newChunks, &entity.TranscriptChunk{
			Id:             uuid.New(),
			TranscriptId:   transcript.Id,
			VideoUrl:       transcript.VideoUrl,
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.TranscriptChunkRepository().DeleteByTranscriptId(ctx, transcript.Id); err != nil {
		return 0, err
	}

	if len(newChunks) > 0 {
		if err := uow.TranscriptChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			return 0, err
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	cs.broadcast(dto.ProgressEvent{
		Stage:   "embed",
		VideoId: transcript.VideoId,
		Title:   transcript.Title,
		Chunks:  len(newChunks),
		Message: "Transcript embedded",
	})

	return len(newChunks), nil
}

func (cs *consumerService) broadcast(event dto.ProgressEvent) {
	if cs.hub == nil {
		return
	}
	event.Timestamp = time.Now()
	cs.hub.BroadcastProgress(event)
}
