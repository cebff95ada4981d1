package bootstrap

import (
	"context"
	"log"

	"yt-coach-be/internal/config"
	"yt-coach-be/internal/controller"
	"yt-coach-be/internal/handler"
	"yt-coach-be/internal/pkg/logger"
	"yt-coach-be/internal/repository/memory"
	"yt-coach-be/internal/repository/unitofwork"
	"yt-coach-be/internal/service"
	"yt-coach-be/internal/websocket"
	"yt-coach-be/pkg/embedding"
	embeddinghf "yt-coach-be/pkg/embedding/huggingface"
	"yt-coach-be/pkg/llm/factory"
	"yt-coach-be/pkg/rag/search"
	"yt-coach-be/pkg/tts"
	"yt-coach-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	IngestController controller.IIngestController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	IngestService   service.IIngestService

	// WebSockets
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embeddinghf.NewHuggingFaceProvider(cfg.Keys.HuggingFace, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory session storage for conversation logs
	sessionRepo := memory.NewSessionRepository(cfg.Ai.ChatMaxTurns)

	// 4. Infrastructure
	// Redis (optional, enables cross-instance progress fanout)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v (progress fanout stays local)", err)
			rdb = nil
		}
	}

	// WebSocket Hub for ingestion progress
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ingest.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.EmbedTopic,
		uowFactory,
		embeddingProvider,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
		wsHub,
	)

	searcher := websearch.NewDuckDuckGoSearcher(cfg.Ai.WebSearchResults)

	var ttsClient *tts.ElevenLabsClient
	if cfg.Keys.ElevenLabs != "" {
		ttsClient = tts.NewElevenLabsClient(cfg.Keys.ElevenLabs, cfg.Tts.VoiceId, cfg.Tts.ModelId)
	} else {
		log.Printf("[WARN] ELEVENLABS_API_KEY not set, speak endpoint disabled")
	}

	searchConfig := search.DefaultConfig()
	searchConfig.TopK = cfg.Ai.RetrievalTopK

	chatService := service.NewChatService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		searcher,
		sessionRepo,
		ttsClient,
		searchConfig,
	)

	ingestService := service.NewIngestService(
		cfg.Ingest,
		uowFactory,
		publisherService,
		wsHub,
		sysLogger,
	)

	// 6. Controllers
	chatController := controller.NewChatController(chatService)
	ingestController := controller.NewIngestController(ingestService)
	progressHandler := handler.NewProgressHandler(wsHub, wsLogger)

	return &Container{
		ChatController:   chatController,
		IngestController: ingestController,
		ConsumerService:  consumerService,
		IngestService:    ingestService,
		ProgressHandler:  progressHandler,
		WebSocketHub:     wsHub,
		Logger:           sysLogger,
	}
}
