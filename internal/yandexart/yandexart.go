// Package yandexart generates post illustrations through the Yandex ART
// async API: submit a job, then poll the operation until it is done.
package yandexart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

const (
	DefaultGenerationURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/imageGenerationAsync"
	DefaultOperationURL  = "https://operation.api.cloud.yandex.net/operations"

	maxPolls = 10
)

type Client struct {
	artKey       string
	folderID     string
	genURL       string
	opURL        string
	pollInterval time.Duration
	http         *http.Client
}

func NewClient(artKey, folderID string) *Client {
	return &Client{
		artKey:       artKey,
		folderID:     folderID,
		genURL:       DefaultGenerationURL,
		opURL:        DefaultOperationURL,
		pollInterval: 2 * time.Second,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// WithEndpoints overrides both API endpoints and the poll interval, for tests.
func (c *Client) WithEndpoints(genURL, opURL string, pollInterval time.Duration) *Client {
	c.genURL = genURL
	c.opURL = opURL
	c.pollInterval = pollInterval
	return c
}

type generationRequest struct {
	ModelURI          string `json:"modelUri"`
	GenerationOptions struct {
		Resolution struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"resolution"`
	} `json:"generationOptions"`
	Messages []struct {
		Text string `json:"text"`
	} `json:"messages"`
}

type operationResponse struct {
	ID       string `json:"id"`
	Done     bool   `json:"done"`
	Response struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"response"`
}

// Generate submits an image job and polls up to 10 times. An empty URL
// with nil error means the job did not finish in time; the news pipeline
// treats both outcomes as "post without a generated image".
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var req generationRequest
	req.ModelURI = fmt.Sprintf("art://%s/yandex-art/latest", c.folderID)
	req.GenerationOptions.Resolution.Width = 1024
	req.GenerationOptions.Resolution.Height = 1024
	req.Messages = []struct {
		Text string `json:"text"`
	}{{Text: prompt}}

	op, err := c.submit(ctx, req)
	if err != nil {
		return "", err
	}

	for i := 0; i < maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		status, err := c.checkOperation(ctx, op)
		if err != nil {
			return "", err
		}
		if status.Done {
			return status.Response.Image.URL, nil
		}
	}

	logger.Warn("генерация картинки не успела завершиться", "operation", op)
	return "", nil
}

func (c *Client) submit(ctx context.Context, reqBody generationRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.genURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.artKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandex-art request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandex-art: status %d", resp.StatusCode)
	}

	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return "", fmt.Errorf("decode operation: %w", err)
	}
	if op.ID == "" {
		return "", fmt.Errorf("yandex-art: empty operation id")
	}
	return op.ID, nil
}

func (c *Client) checkOperation(ctx context.Context, id string) (*operationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opURL+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.artKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("operation poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("operation poll: status %d", resp.StatusCode)
	}

	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decode operation status: %w", err)
	}
	return &op, nil
}
