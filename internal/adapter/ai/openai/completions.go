package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete submits the full transcript and returns the model's reply. One
// round trip per turn; failures propagate to the caller, which owns retry
// policy.
func (c *Client) Complete(ctx context.Context, transcript []domain.Turn) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: API key not configured")
	}

	messages := make([]chatMessage, len(transcript))
	for i, turn := range transcript {
		messages[i] = chatMessage{Role: string(turn.Role), Content: turn.Content}
	}

	reqBody := chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("openai: create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("openai: send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openai: API error status %d", resp.StatusCode)
		}

		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, fmt.Errorf("openai: decode response: %w", err)
		}
		return &parsed, nil
	})
	if err != nil {
		return "", err
	}
	telemetry.CompletionLatency.Observe(time.Since(start).Seconds())

	parsed := result.(*chatResponse)
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	c.log.Debug("completion turn finished",
		zap.Int("transcript_turns", len(transcript)),
		zap.Int("total_tokens", parsed.Usage.TotalTokens),
	)

	return parsed.Choices[0].Message.Content, nil
}
