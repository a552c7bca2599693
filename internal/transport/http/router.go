package http

import (
	"net/http"

	"github.com/budget-bot/internal/application/expense"
	"github.com/budget-bot/internal/application/ingest"
	"github.com/budget-bot/internal/application/message"
	"github.com/budget-bot/internal/config"
	"github.com/budget-bot/internal/infrastructure/dynamo"
	"github.com/budget-bot/internal/infrastructure/telegram"
	"github.com/budget-bot/internal/transport/http/handler"
	appmiddleware "github.com/budget-bot/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	MessageRepo *dynamo.MessageRepo
	Notifier    *telegram.Client
	Analyzer    ingest.Analyzer // nil runs the pipeline on local heuristics only
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second per IP, burst of 10, for the public webhook; the
	// admin surface gets its own bucket so webhook traffic cannot starve it.
	webhookRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	adminRL := appmiddleware.NewRateLimiter(rate.Limit(10), 20)

	expenseSvc := expense.NewService(deps.MessageRepo)
	ingestSvc := ingest.NewService(deps.MessageRepo, expenseSvc, deps.Notifier, deps.Analyzer, cfg.ExpenseThreshold)
	messageSvc := message.NewService(deps.MessageRepo)

	healthH := handler.NewHealthHandler()
	trackerH := handler.NewTrackerHandler(ingestSvc)
	messageH := handler.NewMessageHandler(messageSvc)

	// Telegram webhook endpoint. setWebhook points here.
	r.With(webhookRL.Limit, appmiddleware.WebhookSecret(cfg.TelegramWebhookSecret)).
		Post("/tracker", trackerH.Webhook)

	r.Route("/v1", func(r chi.Router) {
		r.Use(adminRL.Limit)

		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Get("/messages/{id}", messageH.Get)
		r.Delete("/messages/{id}", messageH.Delete)
		r.Get("/users/{username}/messages", messageH.List)
	})

	return r
}
