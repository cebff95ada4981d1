package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/repository/memory"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/pkg/embedding"
	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag"
	ragmemory "yt-coach-be/pkg/rag/memory"
	"yt-coach-be/pkg/rag/answer"
	"yt-coach-be/pkg/rag/judge"
	"yt-coach-be/pkg/rag/search"
	"yt-coach-be/pkg/tts"

	"github.com/google/uuid"
)

// IChatService defines the coaching chat service interface
type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.GetHistoryResponse, error)
	Speak(ctx context.Context, request *dto.SpeakRequest) ([]byte, error)
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	pipeline    *rag.Pipeline
	ttsClient   *tts.ElevenLabsClient
	llmLogger   *log.Logger
}

// NewChatService wires the retrieval pipeline out of its domain components.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	searcher rag.WebSearcher,
	sessionRepo *memory.SessionRepository,
	ttsClient *tts.ElevenLabsClient,
	searchConfig search.Config,
) IChatService {
	llmLogger := initLLMLogger()

	retriever := search.NewOrchestrator(embeddingProvider, uowFactory, searchConfig, llmLogger)
	sufficiencyJudge := judge.New(llmProvider, llmLogger)
	generator := answer.New(llmProvider, llmLogger)
	pipeline := rag.NewPipeline(retriever, searcher, sufficiencyJudge, generator, llmLogger)

	return &chatService{
		sessionRepo: sessionRepo,
		pipeline:    pipeline,
		ttsClient:   ttsClient,
		llmLogger:   llmLogger,
	}
}

func (s *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sessionId := uuid.New()
	s.sessionRepo.GetOrCreate(sessionId.String())
	s.llmLogger.Printf("[SESSION] Created session %s", sessionId)

	return &dto.CreateSessionResponse{Id: sessionId}, nil
}

// Ask runs one query through the pipeline. The human turn is logged before
// the run so the pipeline sees it in history, and the full serialized answer
// is logged after, whether the run succeeded or surfaced an error response.
func (s *chatService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	conv := s.sessionRepo.GetOrCreate(request.SessionId.String())

	conv.Append(ragmemory.RoleHuman, request.Query)
	snapshot := conv.Snapshot()

	result := s.pipeline.Run(ctx, request.Query, snapshot)

	serialized, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("serialize answer: %w", err)
	}
	conv.Append(ragmemory.RoleAI, string(serialized))
	s.sessionRepo.Save(request.SessionId.String(), conv)

	return &dto.AskResponse{
		Answer:     result.Answer,
		Source:     result.Source,
		Confidence: result.Confidence,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.GetHistoryResponse, error) {
	conv, found := s.sessionRepo.Get(sessionId.String())
	if !found {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}

	turns := conv.Snapshot()
	history := make([]dto.HistoryTurn, 0, len(turns))
	for _, t := range turns {
		history = append(history, dto.HistoryTurn{Role: t.Role, Content: t.Content})
	}

	return &dto.GetHistoryResponse{
		SessionId: sessionId,
		Turns:     history,
	}, nil
}

func (s *chatService) Speak(ctx context.Context, request *dto.SpeakRequest) ([]byte, error) {
	if s.ttsClient == nil {
		return nil, fmt.Errorf("text to speech is not configured")
	}
	return s.ttsClient.Synthesize(ctx, request.Text)
}

// initLLMLogger creates a dedicated file logger for the retrieval pipeline
// so prompt and stage traffic stays out of the main application log.
func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "[LLM-RAG] ", log.LstdFlags)
}
