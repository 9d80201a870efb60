package openai

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const baseURL = "https://api.openai.com/v1"

// Client provides access to the OpenAI chat-completion and speech APIs.
// Both call paths share one circuit breaker so a flapping upstream trips
// fast instead of queueing interview turns behind timeouts.
type Client struct {
	apiKey     string
	chatModel  string
	ttsModel   string
	ttsVoice   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

// Config holds the OpenAI client settings.
type Config struct {
	APIKey    string
	ChatModel string
	TTSModel  string
	TTSVoice  string
	Timeout   time.Duration
}

// NewClient creates a new OpenAI API client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = "tts-1"
	}
	if cfg.TTSVoice == "" {
		cfg.TTSVoice = "alloy"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("OpenAI circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		apiKey:     cfg.APIKey,
		chatModel:  cfg.ChatModel,
		ttsModel:   cfg.TTSModel,
		ttsVoice:   cfg.TTSVoice,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		log:        log,
	}
}
