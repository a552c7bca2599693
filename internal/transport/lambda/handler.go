// Package lambda adapts the ingestion pipeline to an API Gateway proxy
// integration, for deployments where the webhook runs as a function instead
// of a long-lived server.
package lambda

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/budget-bot/internal/application/ingest"
	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/infrastructure/telegram"
)

const secretTokenHeader = "x-telegram-bot-api-secret-token"

type Handler struct {
	svc    ingest.Service
	secret string
}

func NewHandler(svc ingest.Service, secret string) *Handler {
	return &Handler{svc: svc, secret: secret}
}

// Handle processes one webhook delivery. The response contract mirrors the
// HTTP transport: 200 for anything handled (duplicates included), 400 for
// malformed payloads, 500 otherwise.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if h.secret != "" {
		got := headerValue(req.Headers, secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			return respond(401, "unauthorized"), nil
		}
	}

	var upd telegram.Update
	if err := json.Unmarshal([]byte(req.Body), &upd); err != nil {
		return respond(400, "invalid request body"), nil
	}

	outcome, err := h.svc.ProcessUpdate(ctx, upd)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return respond(400, "Invalid request"), nil
		}
		return respond(500, "Internal Server Error"), nil
	}
	return respond(200, outcome), nil
}

// headerValue does a case-insensitive lookup; API Gateway does not normalize
// header casing.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func respond(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
