package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestIssueResolve_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := mocks.NewMockCache()
	store := NewStore(cache, newTestLogger())

	// Act
	token, err := store.Issue(ctx, "alice")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a token, got empty string")
	}

	identity, ok, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("expected ticket to resolve")
	}
	if identity != "alice" {
		t.Errorf("expected identity alice, got %s", identity)
	}
}

func TestResolve_ExpiredTicketIsAbsent(t *testing.T) {
	// Arrange: a clock that can be advanced past the ticket TTL.
	ctx := context.Background()
	now := time.Now()
	cache := mocks.NewMockCache()
	cache.NowFunc = func() time.Time { return now }
	store := NewStore(cache, newTestLogger())

	token, err := store.Issue(ctx, "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act: advance the clock one hour past issuance.
	now = now.Add(time.Hour + time.Second)
	_, ok, err := store.Resolve(ctx, token)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected expired ticket to resolve as absent")
	}
}

func TestResolve_UnknownTicket(t *testing.T) {
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())

	_, ok, err := store.Resolve(ctx, "never-issued")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected unknown ticket to resolve as absent")
	}
}

func TestRevoke_RemovesTicket(t *testing.T) {
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())

	token, _ := store.Issue(ctx, "alice")
	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, ok, _ := store.Resolve(ctx, token)
	if ok {
		t.Error("expected revoked ticket to resolve as absent")
	}
}

func TestIssue_StoreUnavailableIsFatal(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return errors.New("connection refused")
	}
	store := NewStore(cache, newTestLogger())

	if _, err := store.Issue(ctx, "alice"); err == nil {
		t.Fatal("expected error when store is unavailable")
	}
}

func TestIssue_ConcurrentIssuesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())

	first, _ := store.Issue(ctx, "alice")
	second, _ := store.Issue(ctx, "alice")

	if first == second {
		t.Error("expected independent tickets for the same identity")
	}
}
