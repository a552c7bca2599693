package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/budget-bot/internal/application/message"
	"github.com/budget-bot/internal/domain"
	"github.com/go-chi/chi/v5"
)

// MessageHandler exposes the processed-messages table for operators:
// point lookups, windowed listings per user, and manual deletes.
type MessageHandler struct {
	svc message.Service
}

func NewMessageHandler(svc message.Service) *MessageHandler { return &MessageHandler{svc: svc} }

func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.ListMessagesRequest{
		Username: chi.URLParam(r, "username"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Kind:     q.Get("kind"),
		Cursor:   q.Get("cursor"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		req.Limit = int32(limit)
	}

	msgs, next, err := h.svc.List(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.ProcessedMessage{}
	}
	writeJSON(w, http.StatusOK, PaginatedMessagesEnvelope{Data: msgs, NextCursor: next})
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "message deleted"})
}
