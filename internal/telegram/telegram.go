// Package telegram posts channel messages through the Bot API with bounded
// retry on transport failure.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/retry"
)

const (
	DefaultAPIBase = "https://api.telegram.org"

	// Telegram hard limits.
	messageLimit = 4096
	captionLimit = 1024
)

// Client delivers posts to one fixed channel.
type Client struct {
	token    string
	chatID   string
	baseURL  string
	attempts int
	delay    time.Duration
	http     *http.Client
}

func NewClient(token, chatID string, attempts int, delay time.Duration) *Client {
	return &Client{
		token:    token,
		chatID:   chatID,
		baseURL:  DefaultAPIBase,
		attempts: attempts,
		delay:    delay,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API host, for tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Deliver posts the text, attached to the image as a document caption when
// an image URL is present. Up to c.attempts tries with a fixed delay in
// between; if every image send fails, it degrades once to a plain text
// message. Reports success; never raises.
func (c *Client) Deliver(ctx context.Context, text, imageURL string) bool {
	cfg := retry.Config{
		MaxAttempts: c.attempts,
		Delay:       c.delay,
		OnAttempt: func(attempt int, err error) {
			logger.Warn("❌ ошибка отправки в Telegram", "attempt", attempt, "max", c.attempts, "err", err)
		},
	}

	err := retry.Do(ctx, cfg, func() error {
		if imageURL != "" {
			return c.sendDocumentOnce(ctx, imageURL, text)
		}
		return c.sendMessageOnce(ctx, text)
	})
	if err == nil {
		return true
	}

	if imageURL != "" {
		// fallback: текст отдельным сообщением
		logger.Warn("отправка с картинкой не удалась, пробуем только текст")
		if err := c.sendMessageOnce(ctx, text); err == nil {
			return true
		}
	}

	logger.Error("🚫 сообщение не доставлено", "err", err)
	return false
}

// SendMessage sends one plain HTML message with the same bounded retry.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	return retry.Do(ctx, retry.Config{MaxAttempts: c.attempts, Delay: c.delay}, func() error {
		return c.sendMessageOnce(ctx, text)
	})
}

func (c *Client) sendMessageOnce(ctx context.Context, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":    c.chatID,
		"text":       clamp(text, messageLimit),
		"parse_mode": "HTML",
	})
}

// sendDocumentOnce attaches the post text as the document caption; document
// captions share the 4096 limit, unlike photo captions.
func (c *Client) sendDocumentOnce(ctx context.Context, documentURL, caption string) error {
	return c.call(ctx, "sendDocument", map[string]any{
		"chat_id":    c.chatID,
		"document":   documentURL,
		"caption":    clamp(caption, messageLimit),
		"parse_mode": "HTML",
	})
}

// SendPhoto posts a photo with a caption clamped to the 1024-char photo
// caption limit. Single attempt; callers wrap it when they want retry.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	return c.call(ctx, "sendPhoto", map[string]any{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    clamp(caption, captionLimit),
		"parse_mode": "HTML",
	})
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("failed to close response body", "err", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}

// clamp truncates to max runes with an ellipsis marker.
func clamp(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
