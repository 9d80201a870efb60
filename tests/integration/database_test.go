package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/storage/postgres"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
)

// TestInterviewRepository_Postgres exercises the archive repository against
// a real Postgres through gorm.
func TestInterviewRepository_Postgres(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Postgres not available")
	}

	db, err := postgres.NewConnection(env.PgConnStr, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open gorm connection: %v", err)
	}
	if err := postgres.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := postgres.NewInterviewRepository(db, zap.NewNop())

	newRecord := func(identity string) *domain.InterviewRecord {
		transcript, _ := json.Marshal([]domain.Turn{
			{Role: domain.TurnRoleAssistant, Content: "Tell me about yourself."},
			{Role: domain.TurnRoleUser, Content: "I build backend services."},
		})
		questions, _ := json.Marshal([]string{"Tell me about yourself"})
		now := time.Now().UTC().Truncate(time.Second)
		return &domain.InterviewRecord{
			ID:         uuid.New().String(),
			Identity:   identity,
			Company:    "Acme",
			Role:       "Backend Engineer",
			Questions:  string(questions),
			Transcript: string(transcript),
			TurnCount:  2,
			StartedAt:  now.Add(-20 * time.Minute),
			EndedAt:    now,
			CreatedAt:  now,
		}
	}

	t.Run("SaveAndFindByID", func(t *testing.T) {
		record := newRecord("alice@example.com")
		if err := repo.Save(ctx, record); err != nil {
			t.Fatalf("Save: %v", err)
		}

		found, err := repo.FindByID(ctx, record.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if found == nil {
			t.Fatal("saved record should be found")
		}
		if found.Identity != "alice@example.com" || found.TurnCount != 2 {
			t.Errorf("record mismatch: %+v", found)
		}

		var turns []domain.Turn
		if err := json.Unmarshal([]byte(found.Transcript), &turns); err != nil {
			t.Fatalf("stored transcript is not valid JSON: %v", err)
		}
		if len(turns) != 2 {
			t.Errorf("transcript has %d turns, want 2", len(turns))
		}
	})

	t.Run("FindByIDAbsent", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New().String())
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if found != nil {
			t.Error("unknown id should yield nil, nil")
		}
	})

	t.Run("FindByIdentity", func(t *testing.T) {
		CleanDatabase(t, env.DB)
		for i := 0; i < 3; i++ {
			record := newRecord("bob@example.com")
			record.EndedAt = record.EndedAt.Add(time.Duration(i) * time.Minute)
			if err := repo.Save(ctx, record); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}
		if err := repo.Save(ctx, newRecord("carol@example.com")); err != nil {
			t.Fatalf("Save: %v", err)
		}

		records, err := repo.FindByIdentity(ctx, "bob@example.com", 10, 0)
		if err != nil {
			t.Fatalf("FindByIdentity: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("found %d records, want 3", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i-1].EndedAt.Before(records[i].EndedAt) {
				t.Error("records should be ordered newest first")
			}
		}
	})

	t.Run("FindByIdentityPaginated", func(t *testing.T) {
		firstPage, err := repo.FindByIdentity(ctx, "bob@example.com", 2, 0)
		if err != nil {
			t.Fatalf("FindByIdentity: %v", err)
		}
		if len(firstPage) != 2 {
			t.Fatalf("first page has %d records, want 2", len(firstPage))
		}

		secondPage, err := repo.FindByIdentity(ctx, "bob@example.com", 2, 2)
		if err != nil {
			t.Fatalf("FindByIdentity: %v", err)
		}
		if len(secondPage) != 1 {
			t.Fatalf("second page has %d records, want 1", len(secondPage))
		}
		if !firstPage[1].EndedAt.After(secondPage[0].EndedAt) {
			t.Error("pages should continue the newest-first ordering")
		}
	})
}
