package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// LiveClient holds a streaming connection to the Deepgram live transcription
// endpoint. One client serves one interview channel; audio chunks go out,
// transcript fragments come back on the same socket.
type LiveClient struct {
	apiKey     string
	model      string
	sampleRate int
	log        *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewLiveClient(apiKey, model string, sampleRate int, log *zap.Logger) *LiveClient {
	if model == "" {
		model = "nova-2"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &LiveClient{
		apiKey:     apiKey,
		model:      model,
		sampleRate: sampleRate,
		log:        log,
	}
}

// Connect establishes the streaming socket. Safe to call again after Close.
func (c *LiveClient) Connect(ctx context.Context) error {
	url := fmt.Sprintf(
		"wss://api.deepgram.com/v1/listen?model=%s&encoding=linear16&sample_rate=%d&punctuate=true",
		c.model, c.sampleRate,
	)

	headers := http.Header{
		"Authorization": []string{"Token " + c.apiKey},
	}

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return fmt.Errorf("deepgram: dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.Info("Connected to Deepgram live transcription", zap.String("model", c.model))
	return nil
}

type liveResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// Transcribe sends one audio chunk and reads responses until a final
// transcript arrives. Lazily connects on first use.
func (c *LiveClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		if err := c.Connect(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
	}
	conn := c.conn
	c.mu.Unlock()

	if err := conn.Write(ctx, websocket.MessageBinary, audio); err != nil {
		return "", fmt.Errorf("deepgram: send audio: %w", err)
	}

	var parts []string
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return "", fmt.Errorf("deepgram: read: %w", err)
		}

		var resp liveResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}
		if len(resp.Channel.Alternatives) == 0 {
			continue
		}

		text := resp.Channel.Alternatives[0].Transcript
		if text != "" {
			parts = append(parts, text)
		}
		if resp.IsFinal {
			return strings.Join(parts, " "), nil
		}
	}
}

func (c *LiveClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "session ended")
	c.conn = nil
	return err
}
