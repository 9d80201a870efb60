package session

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Company:   "Initech",
		Role:      "Backend Engineer",
		Questions: []string{"Explain goroutine scheduling", "What is a WAL?"},
		Transcript: []domain.Turn{
			{Role: domain.TurnRoleSystem, Content: "You are an interviewer."},
			{Role: domain.TurnRoleAssistant, Content: "Welcome to the interview."},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())
	original := testSnapshot()

	// Act
	if err := store.Save(ctx, "alice", original); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	loaded, ok, err := store.Load(ctx, "alice")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to load")
	}
	if loaded.Company != original.Company || loaded.Role != original.Role {
		t.Errorf("company/role mismatch: %+v", loaded)
	}
	if len(loaded.Questions) != 2 || loaded.Questions[0] != original.Questions[0] {
		t.Errorf("questions mismatch: %v", loaded.Questions)
	}
	if len(loaded.Transcript) != 2 || loaded.Transcript[0].Role != domain.TurnRoleSystem {
		t.Errorf("transcript mismatch: %v", loaded.Transcript)
	}
}

func TestLoad_AbsentIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())

	_, ok, err := store.Load(ctx, "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected absent snapshot for unseen identity")
	}
}

func TestSave_RefreshesTTL(t *testing.T) {
	// Arrange: a clock advanced in steps smaller than the TTL but whose sum
	// exceeds it. Each save must push expiry forward.
	ctx := context.Background()
	now := time.Now()
	cache := mocks.NewMockCache()
	cache.NowFunc = func() time.Time { return now }
	store := NewStore(cache, newTestLogger())

	if err := store.Save(ctx, "alice", testSnapshot()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act: 40 minutes later, save again; 40 minutes after that the first
	// save would be expired but the refresh keeps the snapshot alive.
	now = now.Add(40 * time.Minute)
	if err := store.Save(ctx, "alice", testSnapshot()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	now = now.Add(40 * time.Minute)
	_, ok, err := store.Load(ctx, "alice")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Error("expected refreshed snapshot to still be present")
	}

	// And past the refreshed TTL it ages out.
	now = now.Add(time.Hour)
	_, ok, _ = store.Load(ctx, "alice")
	if ok {
		t.Error("expected snapshot to expire after TTL")
	}
}

func TestDelete_RemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(mocks.NewMockCache(), newTestLogger())

	_ = store.Save(ctx, "alice", testSnapshot())
	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, ok, _ := store.Load(ctx, "alice")
	if ok {
		t.Error("expected deleted snapshot to be absent")
	}
}
