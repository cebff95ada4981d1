package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ingest   IngestConfig
	Keys     APIKeys
	Ai       AIConfig
	Tts      TTSConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type IngestConfig struct {
	PlaylistURL    string
	ManifestPath   string
	TranscriptsDir string
	EmbedTopic     string
	ChunkSize      int
	ChunkOverlap   int
}

type APIKeys struct {
	HuggingFace string
	ElevenLabs  string
}

type AIConfig struct {
	EmbeddingProvider string // "huggingface" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	RetrievalTopK     int
	WebSearchResults  int
	ChatMaxTurns      int // 0 = unbounded conversation log
}

type TTSConfig struct {
	VoiceId string
	ModelId string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ingest: IngestConfig{
			PlaylistURL:    getEnv("YOUTUBE_PLAYLIST_URL", ""),
			ManifestPath:   getEnv("PLAYLIST_MANIFEST_PATH", "videos.json"),
			TranscriptsDir: getEnv("TRANSCRIPTS_DIR", "transcripts"),
			EmbedTopic:     getEnv("EMBED_TRANSCRIPT_TOPIC_NAME", "EMBED_TRANSCRIPT"),
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1500),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Keys: APIKeys{
			HuggingFace: getEnv("HF_SERVERLESS_INFERENCE_TOKEN", ""),
			ElevenLabs:  getEnv("ELEVENLABS_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "huggingface"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "BAAI/bge-m3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "huggingface"),
			LLMModel:          getEnv("LLM_MODEL", "meta-llama/Llama-3.3-70B-Instruct"),
			RetrievalTopK:     getEnvAsInt("RETRIEVAL_TOP_K", 3),
			WebSearchResults:  getEnvAsInt("WEB_SEARCH_RESULTS", 3),
			ChatMaxTurns:      getEnvAsInt("CHAT_MAX_TURNS", 0),
		},
		Tts: TTSConfig{
			VoiceId: getEnv("ELEVENLABS_VOICE_ID", "JBFqnCBsd6RMkjVDRZzb"),
			ModelId: getEnv("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
