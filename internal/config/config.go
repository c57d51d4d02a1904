package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration values.
type Config struct {
	Port         string
	WebDir       string
	GeminiAPIKey string
	ImageModel   string
	ChatModel    string
	VisionModel  string

	// Renderer selects the image backend: "gemini" (default) or "imagen".
	Renderer string

	RequestTimeout time.Duration

	Vertex VertexConfig
}

// VertexConfig describes the optional Vertex AI Imagen backend.
type VertexConfig struct {
	ProjectID          string
	Location           string
	Model              string
	ServiceAccount     string
	ServiceAccountJSON string
}

// FromEnv loads configuration from environment variables and applies defaults.
func FromEnv() Config {
	cfg := Config{
		Port:           getenv("APP_PORT", "8080"),
		WebDir:         getenv("WEB_DIR", "web"),
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ImageModel:     getenv("STUDIO_IMAGE_MODEL", ""),
		ChatModel:      getenv("STUDIO_CHAT_MODEL", ""),
		VisionModel:    getenv("STUDIO_VISION_MODEL", ""),
		Renderer:       strings.ToLower(getenv("STUDIO_RENDERER", "gemini")),
		RequestTimeout: time.Duration(getenvInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		Vertex: VertexConfig{
			ProjectID:          os.Getenv("VERTEX_PROJECT_ID"),
			Location:           os.Getenv("VERTEX_LOCATION"),
			Model:              os.Getenv("VERTEX_IMAGE_MODEL"),
			ServiceAccount:     os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		},
	}

	if cfg.Port == "" {
		log.Fatal("APP_PORT cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}

	return cfg
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}

	return parsed
}
