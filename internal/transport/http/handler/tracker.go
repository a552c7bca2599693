package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/budget-bot/internal/application/ingest"
	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/infrastructure/telegram"
)

// TrackerHandler receives Telegram webhook deliveries.
type TrackerHandler struct {
	svc ingest.Service
}

func NewTrackerHandler(svc ingest.Service) *TrackerHandler { return &TrackerHandler{svc: svc} }

// Webhook processes one update. Malformed payloads get a 400; everything the
// pipeline handled (including duplicates) gets a 200 so Telegram stops
// redelivering.
func (h *TrackerHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.svc.ProcessUpdate(r.Context(), upd)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: outcome})
}
