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
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider string // "azure" or "ollama"

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	OllamaBaseURL string
	OllamaModel   string
}

type ChatConfig struct {
	// ReplaySelectedAnswer makes history replay follow the selection cursors
	// instead of always replaying each turn's first answer.
	ReplaySelectedAnswer bool
	SummarizeTitleTopic  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:        getEnv("COMPLETION_PROVIDER", "azure"),
			AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-35-turbo-16k"),
			AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-05-01-preview"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("OLLAMA_MODEL", "llama3"),
		},
		Chat: ChatConfig{
			ReplaySelectedAnswer: getEnvAsBool("CHAT_REPLAY_SELECTED_ANSWER", false),
			SummarizeTitleTopic:  getEnv("SUMMARIZE_TITLE_TOPIC_NAME", "SUMMARIZE_SESSION_TITLE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
