package main

import (
	"context"
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/budget-bot/internal/application/expense"
	"github.com/budget-bot/internal/application/ingest"
	"github.com/budget-bot/internal/config"
	"github.com/budget-bot/internal/infrastructure/dynamo"
	"github.com/budget-bot/internal/infrastructure/gemini"
	"github.com/budget-bot/internal/infrastructure/telegram"
	transportlambda "github.com/budget-bot/internal/transport/lambda"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	// The table is provisioned out of band (SAM/Terraform); no bootstrap
	// on the cold-start path.
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	repo := dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTable)

	notifier := telegram.NewClient(cfg.TelegramBotToken, telegram.WithBaseURL(cfg.TelegramAPIURL))

	var analyzer ingest.Analyzer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARN: Gemini analyzer not available: %v", err)
		} else {
			analyzer = client
		}
	}

	expenseSvc := expense.NewService(repo)
	ingestSvc := ingest.NewService(repo, expenseSvc, notifier, analyzer, cfg.ExpenseThreshold)

	h := transportlambda.NewHandler(ingestSvc, cfg.TelegramWebhookSecret)
	awslambda.Start(h.Handle)
}
