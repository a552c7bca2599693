package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/infrastructure/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockIngestSvc struct{ mock.Mock }

func (m *mockIngestSvc) ProcessUpdate(ctx context.Context, upd telegram.Update) (string, error) {
	args := m.Called(ctx, upd)
	return args.String(0), args.Error(1)
}

func postTracker(h *TrackerHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tracker", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	h.Webhook(rr, req)
	return rr
}

func TestWebhook_OK(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).Return("Expense processed", nil)
	h := NewTrackerHandler(svc)

	rr := postTracker(h, `{"update_id":1,"message":{"message_id":42,"chat":{"id":5},"text":"spent 500 on dinner"}}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Expense processed")
	svc.AssertExpectations(t)
}

func TestWebhook_InvalidJSON(t *testing.T) {
	svc := new(mockIngestSvc)
	h := NewTrackerHandler(svc)

	rr := postTracker(h, `{not-json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "ProcessUpdate")
}

func TestWebhook_MissingFields(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("missing chat id or text: %w", domain.ErrBadRequest))
	h := NewTrackerHandler(svc)

	rr := postTracker(h, `{"update_id":1}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request")
}

func TestWebhook_StoreUnavailable(t *testing.T) {
	svc := new(mockIngestSvc)
	svc.On("ProcessUpdate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("record message: %w: connection refused", domain.ErrUnavailable))
	h := NewTrackerHandler(svc)

	rr := postTracker(h, `{"update_id":1,"message":{"message_id":42,"chat":{"id":5},"text":"hi"}}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
