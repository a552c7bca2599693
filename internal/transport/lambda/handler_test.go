package lambda

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/infrastructure/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIngestSvc struct{ mock.Mock }

func (m *mockIngestSvc) ProcessUpdate(ctx context.Context, upd telegram.Update) (string, error) {
	args := m.Called(ctx, upd)
	return args.String(0), args.Error(1)
}

func makeEvent(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Path:       "/tracker",
		Body:       body,
	}
}

func TestHandle_OK(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).Return("Expense processed", nil)
	h := NewHandler(svc, "")

	resp, err := h.Handle(context.Background(), makeEvent(`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"text":"taxi 300"}}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Body, "Expense processed")
}

func TestHandle_BadBody(t *testing.T) {
	h := NewHandler(new(mockIngestSvc), "")

	resp, err := h.Handle(context.Background(), makeEvent("{broken"))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandle_BadRequestFromPipeline(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("missing chat id or text: %w", domain.ErrBadRequest))
	h := NewHandler(svc, "")

	resp, err := h.Handle(context.Background(), makeEvent(`{"update_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, resp.Body, "Invalid request")
}

func TestHandle_SecretToken(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).Return("Instructions sent", nil)
	h := NewHandler(svc, "s3cret")

	evt := makeEvent(`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"text":"hi"}}`)

	resp, err := h.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	evt.Headers = map[string]string{"X-Telegram-Bot-Api-Secret-Token": "s3cret"}
	resp, err = h.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandle_InternalError(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("record message: %w: timeout", domain.ErrUnavailable))
	h := NewHandler(svc, "")

	resp, err := h.Handle(context.Background(), makeEvent(`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"text":"hi"}}`))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
