package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"surfacestudio/internal/chat"
	"surfacestudio/internal/studio"
)

// New constructs the HTTP server with routes and middleware.
func New(port string, studioHandler studio.Handler, chatHandler chat.Handler, staticFS http.Handler) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/studio", func(r chi.Router) {
			r.Post("/generate", studioHandler.Generate)
			r.Post("/edit", studioHandler.Edit)
			r.Post("/extract", studioHandler.Extract)
			r.Post("/analyze", studioHandler.Analyze)
		})
		r.Post("/chat", chatHandler.Send)
	})

	// Serve the static frontend
	router.Handle("/*", staticFS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Println("server ready on", srv.Addr)
	return srv
}
