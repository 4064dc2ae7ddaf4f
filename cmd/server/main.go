package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/joho/godotenv"

	"github.com/draftkit/versioned-content/pkg/versionedcontent/api"
	"github.com/draftkit/versioned-content/pkg/versionedcontent/config"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	if serverConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	tokenAuth := jwtauth.New("HS256", []byte(serverConfig.JWTSecret), nil)
	handler := api.NewContentHandler(svc)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(serverConfig, tokenAuth, handler),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Versioned Content Server starting on port %s (env: %s)", serverConfig.Port, serverConfig.Environment)
		log.Printf("Database: %s", serverConfig.DatabaseType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func routes(cfg *config.ServerConfig, tokenAuth *jwtauth.JWTAuth, handler *api.ContentHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "environment": "%s"}`, cfg.Environment)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(api.Authenticator)

		r.Mount("/content", handler.Routes())
	})

	return r
}
