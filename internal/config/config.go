package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Rag     RagConfig
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables domain events
	RedisURL           string
	JWTSecret          string // empty disables auth on write endpoints
}

type StorageConfig struct {
	DataDir                 string
	ConversationDir         string
	ClassesDBPath           string
	VectorStore             string // "local" or "postgres"
	VectorIndexDir          string
	DBConnection            string
	ConversationStore       string // "file" or "redis"
	ConversationMaxMessages int    // 0 keeps every message
}

type RagConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "openai"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	EmbeddingModel       string // openai embedding model
	LLMProvider          string // "openai", "anthropic", "ollama"
	LLMModel             string
	OpenAIAPIKey         string
	OpenAIBaseURL        string // e.g. https://openrouter.ai/api/v1
	AnthropicAPIKey      string
	AgentMaxSteps        int
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", filepath.Join("logs", "app.log")),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			DataDir:                 dataDir,
			ConversationDir:         getEnv("CONVERSATION_DIR", filepath.Join(dataDir, "conversations")),
			ClassesDBPath:           getEnv("CLASSES_DB_PATH", filepath.Join(dataDir, "gym_classes.db")),
			VectorStore:             getEnv("VECTOR_STORE", "local"),
			VectorIndexDir:          getEnv("VECTOR_INDEX_DIR", filepath.Join(dataDir, "vector_index")),
			DBConnection:            getEnv("DB_CONNECTION_STRING", ""),
			ConversationStore:       getEnv("CONVERSATION_STORE", "file"),
			ConversationMaxMessages: getEnvAsInt("CONVERSATION_MAX_MESSAGES", 0),
		},
		Rag: RagConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 50),
			TopK:         getEnvAsInt("RETRIEVER_TOP_K", 3),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			LLMProvider:          getEnv("LLM_PROVIDER", "openai"),
			LLMModel:             getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
			AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
			AgentMaxSteps:        getEnvAsInt("AGENT_MAX_STEPS", 4),
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
