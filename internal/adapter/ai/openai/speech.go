package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize converts one text segment into audio bytes. Each unit of speech
// is generated and delivered whole; the endpoint does not stream partial
// frames.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	payload, err := json.Marshal(speechRequest{
		Model:          c.ttsModel,
		Input:          text,
		Voice:          c.ttsVoice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/audio/speech", bytes.NewReader(payload))
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

		audio, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("openai: read audio: %w", err)
		}
		return audio, nil
	})
	if err != nil {
		return nil, err
	}

	audio := result.([]byte)
	c.log.Debug("speech segment synthesized",
		zap.Int("text_len", len(text)),
		zap.Int("audio_bytes", len(audio)),
	)

	return audio, nil
}
