package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	NATS           NATSConfig           `mapstructure:"nats"`
	Queue          QueueConfig          `mapstructure:"queue"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	OpenAI         OpenAIConfig         `mapstructure:"openai"`
	Deepgram       DeepgramConfig       `mapstructure:"deepgram"`
	Vault          VaultConfig          `mapstructure:"vault"`
	Billing        BillingConfig        `mapstructure:"billing"`
	Email          EmailConfig          `mapstructure:"email"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL          string        `mapstructure:"url"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate  bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// QueueConfig selects the event broker. Driver "nats" (default) uses the
// NATS section's URL; "rabbitmq" uses RabbitMQURL.
type QueueConfig struct {
	Driver      string `mapstructure:"driver"`
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	Issuer        string        `mapstructure:"issuer"`
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	ChatModel string `mapstructure:"chat_model"`
	TTSModel  string `mapstructure:"tts_model"`
	TTSVoice  string `mapstructure:"tts_voice"`
}

type DeepgramConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	SampleRate int    `mapstructure:"sample_rate"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type BillingConfig struct {
	Enabled        bool         `mapstructure:"enabled"`
	Stripe         StripeConfig `mapstructure:"stripe"`
	Currency       string       `mapstructure:"currency"`
	CentsPerTurn   int64        `mapstructure:"cents_per_turn"`
	CentsPerMinute int64        `mapstructure:"cents_per_minute"`
	MinimumCents   int64        `mapstructure:"minimum_cents"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Provider       string `mapstructure:"provider"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	From           string `mapstructure:"from"`
	FromName       string `mapstructure:"from_name"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUsername   string `mapstructure:"smtp_username"`
	SMTPPassword   string `mapstructure:"smtp_password"`
	SMTPUseTLS     bool   `mapstructure:"smtp_use_tls"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
	ServiceName string       `mapstructure:"service_name"`
}

type JaegerConfig struct {
	Endpoint     string  `mapstructure:"endpoint"`
	SamplerType  string  `mapstructure:"sampler_type"`
	SamplerParam float64 `mapstructure:"sampler_param"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Port    int    `mapstructure:"port"`
}

type LoggingConfig struct {
	Level    string          `mapstructure:"level"`
	Format   string          `mapstructure:"format"`
	Output   string          `mapstructure:"output"`
	Sampling LoggingSampling `mapstructure:"sampling"`
}

type LoggingSampling struct {
	Enabled    bool `mapstructure:"enabled"`
	Initial    int  `mapstructure:"initial"`
	Thereafter int  `mapstructure:"thereafter"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      int           `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
