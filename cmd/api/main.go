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

	"github.com/budget-bot/internal/application/ingest"
	"github.com/budget-bot/internal/config"
	"github.com/budget-bot/internal/infrastructure/dynamo"
	"github.com/budget-bot/internal/infrastructure/gemini"
	"github.com/budget-bot/internal/infrastructure/telegram"
	transporthttp "github.com/budget-bot/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	// Bootstrap the ProcessedMessages table (created if it doesn't exist).
	dynamoClient, err := dynamo.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTable)

	notifier := telegram.NewClient(cfg.TelegramBotToken, telegram.WithBaseURL(cfg.TelegramAPIURL))

	// Gemini analyzer (optional — the pipeline falls back to local
	// heuristics without it).
	var analyzer ingest.Analyzer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARN: Gemini analyzer not available: %v", err)
		} else {
			defer client.Close()
			analyzer = client
		}
	} else {
		log.Println("WARN: GEMINI_API_KEY not set, using heuristic analysis only")
	}

	deps := &transporthttp.Deps{
		MessageRepo: dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTable),
		Notifier:    notifier,
		Analyzer:    analyzer,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
