package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("STUDIO_RENDERER", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")

	cfg := FromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.WebDir != "web" {
		t.Errorf("WebDir = %q, want web", cfg.WebDir)
	}
	if cfg.Renderer != "gemini" {
		t.Errorf("Renderer = %q, want gemini", cfg.Renderer)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.RequestTimeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9191")
	t.Setenv("GEMINI_API_KEY", "  key-with-spaces  ")
	t.Setenv("STUDIO_RENDERER", "Imagen")
	t.Setenv("STUDIO_IMAGE_MODEL", "models/custom-image")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "45")
	t.Setenv("VERTEX_PROJECT_ID", "proj")
	t.Setenv("VERTEX_LOCATION", "europe-north1")

	cfg := FromEnv()

	if cfg.Port != "9191" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GeminiAPIKey != "key-with-spaces" {
		t.Errorf("GeminiAPIKey = %q, want trimmed value", cfg.GeminiAPIKey)
	}
	if cfg.Renderer != "imagen" {
		t.Errorf("Renderer = %q, want imagen (lower-cased)", cfg.Renderer)
	}
	if cfg.ImageModel != "models/custom-image" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.RequestTimeout)
	}
	if cfg.Vertex.ProjectID != "proj" || cfg.Vertex.Location != "europe-north1" {
		t.Errorf("Vertex config not loaded: %+v", cfg.Vertex)
	}
}

func TestFromEnv_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg := FromEnv()
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want fallback 120s", cfg.RequestTimeout)
	}
}
