package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultYandexURL is the Yandex Foundation Models completion endpoint.
const DefaultYandexURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

// ErrEmptyCompletion is returned when the model produced no usable text.
var ErrEmptyCompletion = errors.New("GPT вернул пустой ответ")

// YandexClient calls YandexGPT over plain HTTP.
type YandexClient struct {
	apiKey   string
	folderID string
	baseURL  string
	http     *http.Client
}

func NewYandexClient(apiKey, folderID string) *YandexClient {
	return &YandexClient{
		apiKey:   apiKey,
		folderID: folderID,
		baseURL:  DefaultYandexURL,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the endpoint, for tests.
func (c *YandexClient) WithBaseURL(url string) *YandexClient {
	c.baseURL = url
	return c
}

func (c *YandexClient) Name() string { return "yandexgpt" }

type completionMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type completionRequest struct {
	ModelURI          string              `json:"modelUri"`
	CompletionOptions completionOptions   `json:"completionOptions"`
	Messages          []completionMessage `json:"messages"`
}

type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message completionMessage `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
}

// Complete sends one blocking completion request and returns the raw model
// text. No retry here; a failed item stays unsent and gets another shot on
// the next scheduled run.
func (c *YandexClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := completionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/yandexgpt/latest", c.folderID),
		CompletionOptions: completionOptions{
			Stream:      false,
			Temperature: 0.85,
			MaxTokens:   800,
		},
		Messages: []completionMessage{{Role: "user", Text: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandexgpt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandexgpt: status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if len(parsed.Result.Alternatives) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(parsed.Result.Alternatives[0].Message.Text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
