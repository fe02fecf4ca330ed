package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/market-sentry/internal/config"
)

func testTelegramConfig() config.TelegramConfig {
	return config.TelegramConfig{
		BotToken: "test-token",
		ChatID:   "12345",
		Timeout:  5 * time.Second,
	}
}

func decodeRequest(t *testing.T, r *http.Request) sendMessageRequest {
	t.Helper()
	var req sendMessageRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestSend(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got = decodeRequest(t, r)
		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer server.Close()

	c := NewTelegramClientWithBaseURL(testTelegramConfig(), server.URL)
	err := c.Send(context.Background(), "*hello*", "Markdown")

	require.NoError(t, err)
	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "*hello*", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
}

func TestSend_MissingCredentials(t *testing.T) {
	c := NewTelegramClient(config.TelegramConfig{Timeout: time.Second})
	err := c.Send(context.Background(), "hello", "Markdown")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "Bad Request: can't parse entities"})
	}))
	defer server.Close()

	c := NewTelegramClientWithBaseURL(testTelegramConfig(), server.URL)
	err := c.Send(context.Background(), "broken *markdown", "Markdown")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't parse entities")
}

func TestSendSafe_MarkdownSucceeds(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer server.Close()

	c := NewTelegramClientWithBaseURL(testTelegramConfig(), server.URL)
	assert.True(t, c.SendSafe(context.Background(), "*report*"))
	assert.Equal(t, 1, calls)
}

func TestSendSafe_FallsBackToPlainText(t *testing.T) {
	var requests []sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		requests = append(requests, req)
		if req.ParseMode == "Markdown" {
			json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "can't parse entities"})
			return
		}
		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer server.Close()

	c := NewTelegramClientWithBaseURL(testTelegramConfig(), server.URL)
	ok := c.SendSafe(context.Background(), "*Alert* with `code_span`")

	assert.True(t, ok)
	require.Len(t, requests, 2)
	assert.Equal(t, "Markdown", requests[0].ParseMode)
	assert.Equal(t, "", requests[1].ParseMode)
	assert.Equal(t, "Alert with codespan", requests[1].Text)
}

func TestSendSafe_BothAttemptsFail(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "chat not found"})
	}))
	defer server.Close()

	c := NewTelegramClientWithBaseURL(testTelegramConfig(), server.URL)
	assert.False(t, c.SendSafe(context.Background(), "hello"))
	assert.Equal(t, 2, calls)
}
