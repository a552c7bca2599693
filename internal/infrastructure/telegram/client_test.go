package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReply(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	err := c.SendReply(context.Background(), 123, 456, "<b>hi</b>")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, int64(123), gotBody.ChatID)
	assert.Equal(t, int64(456), gotBody.ReplyToMessageID)
	assert.Equal(t, "<b>hi</b>", gotBody.Text)
	assert.Equal(t, "HTML", gotBody.ParseMode)
}

func TestSendReply_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Bad Request: message not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	err := c.SendReply(context.Background(), 123, 456, "hi")
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestSendReply_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	err := c.SendReply(context.Background(), 123, 456, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
