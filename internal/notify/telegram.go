// Package notify delivers composed messages through the Telegram bot
// API. Delivery is a single bounded attempt with one plain-text
// fallback; retries beyond that are the next run's problem.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/metrics"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// ErrMissingCredentials is returned when the bot token or chat ID is
// not configured.
var ErrMissingCredentials = errors.New("telegram credentials not configured")

// Notifier is the outbound delivery contract consumed by the entry
// points.
type Notifier interface {
	// SendSafe attempts rich-formatted delivery and falls back once
	// to plain text, returning overall success.
	SendSafe(ctx context.Context, text string) bool
}

// TelegramClient sends messages to a single chat via the bot API.
type TelegramClient struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramClient creates a client from the given configuration.
func NewTelegramClient(cfg config.TelegramConfig) *TelegramClient {
	return &TelegramClient{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		baseURL:  defaultAPIBaseURL,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// NewTelegramClientWithBaseURL creates a client against a custom API
// endpoint. Used by tests.
func NewTelegramClientWithBaseURL(cfg config.TelegramConfig, baseURL string) *TelegramClient {
	c := NewTelegramClient(cfg)
	c.baseURL = baseURL
	return c
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send sends a message with the given parse mode. An empty parse mode
// sends plain text.
func (c *TelegramClient) Send(ctx context.Context, text, parseMode string) error {
	if c.botToken == "" || c.chatID == "" {
		return ErrMissingCredentials
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// SendSafe tries Markdown first; some special characters can break
// Markdown parsing, so on failure the markup is stripped and the text
// is retried once plain. Returns overall success.
func (c *TelegramClient) SendSafe(ctx context.Context, text string) bool {
	if err := c.Send(ctx, text, "Markdown"); err == nil {
		return true
	} else {
		logger.Warn("Markdown delivery failed, retrying as plain text",
			logger.ErrorField(err),
		)
	}

	plain := strings.NewReplacer("*", "", "_", "", "`", "").Replace(text)
	if err := c.Send(ctx, plain, ""); err != nil {
		metrics.DeliveryFailures.Inc()
		logger.Error("Plain text delivery failed",
			logger.ErrorField(err),
		)
		return false
	}
	return true
}
