package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/ai/deepgram"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/ai/openai"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/cache"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/http/fiber/handlers"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/http/fiber/middleware"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/queue"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/storage/postgres"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/vault"
	wsAdapter "github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/websocket"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/billing"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/email"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/handshake"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/health"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/identity"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/interview"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/session"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/speech"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/ticket"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/pkg/config"
)

const (
	serviceName    = "tukma-interview"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Tukma Interview Service",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Pull provider keys from Vault when enabled
	if cfg.Vault.Enabled {
		if err := loadSecrets(cfg, logger); err != nil {
			logger.Fatal("Failed to load secrets from Vault", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// 6. Initialize Redis Cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// 7. Initialize Message Queue (NATS by default, RabbitMQ via queue.driver)
	brokerURL := cfg.NATS.URL
	if cfg.Queue.Driver == queue.DriverRabbitMQ {
		brokerURL = cfg.Queue.RabbitMQURL
	}
	messageQueue, err := queue.New(cfg.Queue.Driver, brokerURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	interviewRepo := postgres.NewInterviewRepository(db, logger)

	// 9. Initialize AI Clients
	openaiClient := openai.NewClient(openai.Config{
		APIKey:    cfg.OpenAI.APIKey,
		ChatModel: cfg.OpenAI.ChatModel,
		TTSModel:  cfg.OpenAI.TTSModel,
		TTSVoice:  cfg.OpenAI.TTSVoice,
	}, logger)
	transcriber := deepgram.NewLiveClient(cfg.Deepgram.APIKey, cfg.Deepgram.Model, cfg.Deepgram.SampleRate, logger)
	defer transcriber.Close()

	// 10. Initialize Services (Business Logic Layer)
	identityService := identity.NewService(cfg.JWT.Secret, cfg.JWT.TokenDuration, redisCache, logger)
	ticketStore := ticket.NewStore(redisCache, logger)
	sessionStore := session.NewStore(redisCache, logger)
	handshakeController := handshake.NewController(ticketStore, sessionStore, logger)
	interviewManager := interview.NewManager(openaiClient, sessionStore, interviewRepo, messageQueue, logger)
	orchestrator := speech.NewOrchestrator(openaiClient, logger)

	// 11. Initialize WebSocket Hub and Interview Stream
	wsHub := wsAdapter.NewHub()
	go wsHub.Run()

	streamHandler := wsAdapter.NewInterviewStreamHandler(
		wsHub,
		handshakeController,
		interviewManager,
		orchestrator,
		transcriber,
		identityService,
		logger,
	)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker())
	}

	// Health Check Endpoints
	healthService := health.NewService(&health.Config{
		Version: cfg.App.Version,
		DB:      db,
		Cache:   redisCache,
		NatsURL: cfg.NATS.URL,
	}, logger)
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	// API v1 Routes
	v1 := app.Group("/api/v1")

	authRequired := middleware.AuthRequired(identityService)
	protected := v1.Group("", authRequired)

	interviewHandler := handlers.NewInterviewHandler(handshakeController, logger)
	protected.Post("/interview/request-connection", interviewHandler.RequestConnection)
	protected.Get("/interview/check-connection", interviewHandler.CheckConnection)

	// WebSocket route for the interview channel
	wsAdapter.SetupInterviewRoutes(app, streamHandler, authRequired)

	// 13. Start Background Workers
	go startBackgroundWorkers(cfg, messageQueue, logger)

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// loadSecrets overwrites provider keys with the Vault copies.
func loadSecrets(cfg *config.Config, logger *zap.Logger) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	if key, err := sm.GetOpenAIAPIKey(); err == nil {
		cfg.OpenAI.APIKey = key
	} else {
		logger.Warn("OpenAI key not in Vault, keeping configured value", zap.Error(err))
	}
	if key, err := sm.GetDeepgramAPIKey(); err == nil {
		cfg.Deepgram.APIKey = key
	} else {
		logger.Warn("Deepgram key not in Vault, keeping configured value", zap.Error(err))
	}
	if key, err := sm.GetStripeAPIKey(); err == nil {
		cfg.Billing.Stripe.SecretKey = key
	}
	if key, err := sm.GetSendGridAPIKey(); err == nil {
		cfg.Email.SendGridAPIKey = key
	}
	if url, err := sm.GetDatabaseCredentials(); err == nil {
		cfg.Database.URL = url
	}
	return nil
}

// startBackgroundWorkers consumes interview lifecycle events: the completed
// event drives the summary email and usage billing.
func startBackgroundWorkers(cfg *config.Config, mq queue.MessageQueue, logger *zap.Logger) {
	logger.Info("Starting background workers")

	var emailService ports.EmailService
	if cfg.Email.Enabled {
		svc, err := email.NewService(&email.Config{
			Provider:       cfg.Email.Provider,
			FromEmail:      cfg.Email.From,
			FromName:       cfg.Email.FromName,
			SendGridAPIKey: cfg.Email.SendGridAPIKey,
			SMTPHost:       cfg.Email.SMTPHost,
			SMTPPort:       cfg.Email.SMTPPort,
			SMTPUsername:   cfg.Email.SMTPUsername,
			SMTPPassword:   cfg.Email.SMTPPassword,
			SMTPUseTLS:     cfg.Email.SMTPUseTLS,
		}, logger)
		if err != nil {
			logger.Error("Email service unavailable", zap.Error(err))
		} else {
			emailService = svc
		}
	}

	var billingService ports.BillingService
	if cfg.Billing.Enabled {
		charger := billing.NewStripeCharger(cfg.Billing.Stripe.SecretKey)
		billingService = billing.NewService(charger, billing.Config{
			Currency:       cfg.Billing.Currency,
			CentsPerTurn:   cfg.Billing.CentsPerTurn,
			CentsPerMinute: cfg.Billing.CentsPerMinute,
			MinimumCents:   cfg.Billing.MinimumCents,
		}, logger)
	}

	mq.Subscribe(interview.SubjectCompleted, func(msg []byte) error {
		var record domain.InterviewRecord
		if err := json.Unmarshal(msg, &record); err != nil {
			return fmt.Errorf("decode completed event: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if emailService != nil {
			if err := emailService.SendInterviewSummary(ctx, record.Identity, &record); err != nil {
				logger.Error("Summary email failed", zap.Error(err))
			}
		}
		if billingService != nil {
			duration := record.EndedAt.Sub(record.StartedAt)
			if err := billingService.RecordUsage(ctx, record.Identity, record.TurnCount, duration); err != nil {
				logger.Error("Usage billing failed", zap.Error(err))
			}
		}
		return nil
	})

	mq.Subscribe(interview.SubjectStarted, func(msg []byte) error {
		logger.Info("Interview started", zap.ByteString("event", msg))
		return nil
	})
}
