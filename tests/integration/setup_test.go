package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB                *sql.DB
	PgConnStr         string
	Redis             *redis.Client
	RedisAddr         string
	PostgresContainer testcontainers.Container
	RedisContainer    testcontainers.Container
	Logger            *zap.Logger
	ctx               context.Context
}

var testEnv *TestEnv

// SetupTestEnvironment initializes the test environment with containers
func SetupTestEnvironment(t *testing.T) *TestEnv {
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Check if using external services (CI environment)
	if os.Getenv("DATABASE_URL") != "" {
		return setupExternalServices(t, ctx)
	}

	// Use testcontainers for local testing
	return setupContainers(t, ctx)
}

func setupExternalServices(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	pgConnStr := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", pgConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	testEnv = &TestEnv{
		DB:        db,
		PgConnStr: pgConnStr,
		Redis:     redisClient,
		RedisAddr: opt.Addr,
		Logger:    logger,
		ctx:       ctx,
	}

	return testEnv
}

func setupContainers(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	// Start Postgres container
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("tukma_test"),
		postgres.WithUsername("tukma"),
		postgres.WithPassword("tukma_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	pgHost, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get postgres host: %v", err)
	}

	pgPort, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get postgres port: %v", err)
	}

	pgConnStr := fmt.Sprintf("postgres://tukma:tukma_test@%s:%s/tukma_test?sslmode=disable", pgHost, pgPort.Port())

	db, err := sql.Open("postgres", pgConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}

	// Start Redis container
	redisContainer, err := tcredis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis host: %v", err)
	}

	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get redis port: %v", err)
	}

	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort.Port())
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}

	testEnv = &TestEnv{
		DB:                db,
		PgConnStr:         pgConnStr,
		Redis:             redisClient,
		RedisAddr:         redisAddr,
		PostgresContainer: postgresContainer,
		RedisContainer:    redisContainer,
		Logger:            logger,
		ctx:               ctx,
	}

	return testEnv
}

// TeardownTestEnvironment cleans up the test environment
func TeardownTestEnvironment(t *testing.T) {
	if testEnv == nil {
		return
	}

	ctx := context.Background()

	if testEnv.DB != nil {
		testEnv.DB.Close()
	}

	if testEnv.Redis != nil {
		testEnv.Redis.Close()
	}

	if testEnv.PostgresContainer != nil {
		if err := testEnv.PostgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	}

	if testEnv.RedisContainer != nil {
		if err := testEnv.RedisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	}

	testEnv = nil
}

// CleanDatabase truncates all tables
func CleanDatabase(t *testing.T, db *sql.DB) {
	tables := []string{
		"interview_records",
	}

	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Failed to truncate %s: %v", table, err)
		}
	}
}

// FlushRedis clears all Redis keys
func FlushRedis(t *testing.T, client *redis.Client) {
	ctx := context.Background()
	if err := client.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
