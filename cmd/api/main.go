package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"surfacestudio/internal/chat"
	"surfacestudio/internal/config"
	"surfacestudio/internal/server"
	"surfacestudio/internal/studio"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	ctx := context.Background()

	renderer, err := studio.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.ImageModel, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("failed to init image generator: %v", err)
	}

	var imagen studio.ImagenClient
	if strings.EqualFold(cfg.Renderer, "imagen") {
		if cfg.Vertex.ProjectID == "" || cfg.Vertex.Location == "" || cfg.Vertex.Model == "" {
			log.Fatal("STUDIO_RENDERER=imagen requires VERTEX_PROJECT_ID, VERTEX_LOCATION and VERTEX_IMAGE_MODEL")
		}
		imagen = studio.NewVertexImagen(studio.VertexImagenConfig{
			ProjectID:          cfg.Vertex.ProjectID,
			Location:           cfg.Vertex.Location,
			Model:              cfg.Vertex.Model,
			ServiceAccount:     cfg.Vertex.ServiceAccount,
			ServiceAccountJSON: cfg.Vertex.ServiceAccountJSON,
		})
		log.Println("edit renderer: Vertex AI Imagen")
	}

	var tokenSource oauth2.TokenSource
	if cfg.Vertex.ServiceAccountJSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.Vertex.ServiceAccountJSON),
			"https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			log.Fatalf("failed to parse service account credentials: %v", err)
		}
		tokenSource = creds.TokenSource
	}
	analyzer := studio.NewGeminiAnalyzer(cfg.GeminiAPIKey, cfg.VisionModel, cfg.RequestTimeout, tokenSource)

	session := chat.NewSession(func(ctx context.Context) (chat.ContentGenerator, error) {
		return chat.NewGeminiDialogue(ctx, cfg.GeminiAPIKey, cfg.ChatModel)
	})

	studioHandler := studio.Handler{
		Renderer: renderer,
		Imagen:   imagen,
		Analyzer: analyzer,
	}
	chatHandler := chat.Handler{Session: session}

	staticFS := http.FileServer(http.Dir(cfg.WebDir))
	srv := server.New(cfg.Port, studioHandler, chatHandler, staticFS)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Println("shutting down server...")
		if err := srv.Close(); err != nil {
			log.Printf("server close error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
