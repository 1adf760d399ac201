package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Listings ListingsConfig
	Advisor  AdvisorConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// ListingsConfig drives the market retrieval client. When LiveEnabled is
// false the pipeline runs entirely on the placeholder source.
type ListingsConfig struct {
	BaseURL        string
	APIKey         string
	BatchSize      int
	TimeoutSeconds int
	LiveEnabled    bool
}

// AdvisorConfig holds funnel-level settings.
type AdvisorConfig struct {
	WatchTopic   string   // in-process topic for watch-created handoff
	WatchBackend string   // "memory" or "redis"
	WatchSources []string // default marketplaces a watch monitors
	WatchCadence string
	NotifyEmail  string // recipient for watch confirmations, empty disables mail
}

type AIConfig struct {
	LLMProvider string // "ollama" or "huggingface"
	LLMModel    string
	BaseURL     string
	APIKey      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/advisor.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AutoAdvisor"),
		},
		Listings: ListingsConfig{
			BaseURL:        getEnv("LISTINGS_BASE_URL", "http://localhost:8090"),
			APIKey:         getEnv("LISTINGS_API_KEY", ""),
			BatchSize:      getEnvAsInt("LISTINGS_BATCH_SIZE", 50),
			TimeoutSeconds: getEnvAsInt("LISTINGS_TIMEOUT_SECONDS", 10),
			LiveEnabled:    getEnvAsBool("LISTINGS_LIVE_ENABLED", false),
		},
		Advisor: AdvisorConfig{
			WatchTopic:   getEnv("WATCH_CREATED_TOPIC_NAME", "WATCH_CREATED"),
			WatchBackend: getEnv("WATCH_BACKEND", "memory"),
			WatchSources: getEnvAsSlice("WATCH_SOURCES", []string{"autotempest", "cars_and_bids", "bring_a_trailer"}),
			WatchCadence: getEnv("WATCH_CADENCE", "daily"),
			NotifyEmail:  getEnv("WATCH_NOTIFY_EMAIL", ""),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:    getEnv("LLM_MODEL", "llama3"),
			BaseURL:     getEnv("LLM_BASE_URL", "http://localhost:11434"),
			APIKey:      getEnv("LLM_API_KEY", ""),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
