package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Engine    EngineConfig
	FileStore FileStoreConfig
	DocStore  DocStoreConfig
	Widget    WidgetConfig
	Keys      Topics
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

// EngineConfig holds the generative backend credentials.
type EngineConfig struct {
	APIKey      string
	AssistantID string
}

type FileStoreConfig struct {
	AccessToken string
	RootFolder  string
}

type DocStoreConfig struct {
	BaseURL string
	Secret  string
}

type WidgetConfig struct {
	NonceSecret string
}

type Topics struct {
	UsageTopic string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Engine: EngineConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			AssistantID: getEnv("OPENAI_ASSISTANT_ID", ""),
		},
		FileStore: FileStoreConfig{
			AccessToken: getEnv("DROPBOX_ACCESS_TOKEN", ""),
			RootFolder:  getEnv("DROPBOX_FOLDER_PATH", "/Course Files"),
		},
		DocStore: DocStoreConfig{
			BaseURL: getEnv("WORDPRESS_URL", ""),
			Secret:  getEnv("WORDPRESS_SECRET", ""),
		},
		Widget: WidgetConfig{
			NonceSecret: getEnv("WIDGET_NONCE_SECRET", "default_secret"),
		},
		Keys: Topics{
			UsageTopic: getEnv("USAGE_EVENT_TOPIC_NAME", "CHAT_USAGE_EVENTS"),
		},
	}
}

// ValidateEngine reports whether the generative backend is usable. The
// server still boots without credentials; chat requests then answer with a
// configuration notice instead of failing.
func (c *Config) ValidateEngine() error {
	if c.Engine.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	if c.Engine.AssistantID == "" {
		return errors.New("OPENAI_ASSISTANT_ID is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
