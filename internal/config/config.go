package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Web      WebConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Chat     ChatConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	APIPort string
	WebPort string
	Env     string
}

// WebConfig holds the settings the user-facing app needs to reach the api service.
type WebConfig struct {
	BackendURL  string
	ChatURL     string
	SessionTTL  time.Duration
	HTTPTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
}

type ChatConfig struct {
	Provider string
	Model    string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	backendURL := strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8000"), "/")

	return &Config{
		Server: ServerConfig{
			APIPort: getEnv("API_PORT", "8000"),
			WebPort: getEnv("WEB_PORT", "3000"),
			Env:     getEnv("ENV", "development"),
		},
		Web: WebConfig{
			BackendURL:  backendURL,
			ChatURL:     getEnv("CHAT_URL", "http://127.0.0.1:8000/chat"),
			SessionTTL:  getEnvAsDuration("SESSION_TTL", "24h"),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "0s"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_predictor"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_categories"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
		},
		Chat: ChatConfig{
			Provider: strings.ToLower(getEnv("CHAT_PROVIDER", "openai")),
			Model:    getEnv("CHAT_MODEL", "gpt-4o-mini"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// DatabaseEnabled reports whether predictions should be persisted in postgres.
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != ""
}

// VectorEnabled reports whether the qdrant-backed classifier can be built.
func (c *Config) VectorEnabled() bool {
	return c.Qdrant.URL != "" && c.Gemini.APIKey != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
