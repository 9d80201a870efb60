package interview

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/mocks"
)

func newManager(completion *mocks.MockCompletionClient) (*Manager, *mocks.MockSessionStore, *mocks.MockQueue) {
	sessions := &mocks.MockSessionStore{}
	mq := mocks.NewMockQueue()
	m := NewManager(completion, sessions, &mocks.MockInterviewRepository{}, mq, newTestLogger())
	return m, sessions, mq
}

func TestManagerStart_ReturnsParsedSegments(t *testing.T) {
	// Arrange
	completion := &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, transcript []domain.Turn) (string, error) {
			return `{"messages":["Hello!","Shall we begin?"]}`, nil
		},
	}
	m, sessions, mq := newManager(completion)

	// Act
	segments, err := m.Start(context.Background(), "alice", "Initech", "Backend Engineer", []string{"Explain channels"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(segments) != 2 || segments[0] != "Hello!" {
		t.Errorf("unexpected segments %v", segments)
	}
	if _, ok, _ := sessions.Load(context.Background(), "alice"); !ok {
		t.Error("expected snapshot persisted after start")
	}
	if len(mq.Published(SubjectStarted)) != 1 {
		t.Error("expected interview.started event")
	}
}

func TestManagerStart_TwiceFails(t *testing.T) {
	m, _, _ := newManager(&mocks.MockCompletionClient{})
	ctx := context.Background()

	if _, err := m.Start(ctx, "alice", "Initech", "Backend Engineer", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := m.Start(ctx, "alice", "Initech", "Backend Engineer", nil); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestManagerAsk_WithoutSessionFails(t *testing.T) {
	m, _, _ := newManager(&mocks.MockCompletionClient{})

	_, err := m.Ask(context.Background(), "ghost", "hello")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestManagerAsk_ResumesFromSnapshot(t *testing.T) {
	// Arrange: a snapshot exists but no live engine, as after a process
	// restart. The resumed engine replays the opening turn.
	completion := &mocks.MockCompletionClient{}
	m, sessions, _ := newManager(completion)
	_ = sessions.Save(context.Background(), "alice", domain.Snapshot{
		Company:   "Initech",
		Role:      "Backend Engineer",
		Questions: []string{"Explain channels"},
	})

	// Act
	segments, err := m.Ask(context.Background(), "alice", "I am ready")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(segments) == 0 {
		t.Error("expected reply segments")
	}
	// First call replays the opening, second is the actual turn.
	if calls := completion.Calls(); len(calls) != 2 {
		t.Errorf("expected 2 completion calls (replayed opening + turn), got %d", len(calls))
	}
}

func TestManagerEnd_ArchivesAndPublishes(t *testing.T) {
	// Arrange
	var archived *domain.InterviewRecord
	repo := &mocks.MockInterviewRepository{
		SaveFunc: func(ctx context.Context, record *domain.InterviewRecord) error {
			archived = record
			return nil
		},
	}
	sessions := &mocks.MockSessionStore{}
	mq := mocks.NewMockQueue()
	m := NewManager(&mocks.MockCompletionClient{}, sessions, repo, mq, newTestLogger())
	ctx := context.Background()

	_, _ = m.Start(ctx, "alice", "Initech", "Backend Engineer", []string{"Explain channels"})

	// Act
	if err := m.End(ctx, "alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if archived == nil {
		t.Fatal("expected an archived record")
	}
	if archived.Identity != "alice" || archived.Company != "Initech" {
		t.Errorf("record mismatch: %+v", archived)
	}
	var turns []domain.Turn
	if err := json.Unmarshal([]byte(archived.Transcript), &turns); err != nil || len(turns) == 0 {
		t.Errorf("expected JSON transcript, got %q (%v)", archived.Transcript, err)
	}
	if len(mq.Published(SubjectCompleted)) != 1 {
		t.Error("expected interview.completed event")
	}
	if _, ok, _ := sessions.Load(ctx, "alice"); ok {
		t.Error("expected session snapshot removed on end")
	}

	// Terminal: a new Ask has nothing to resume.
	if _, err := m.Ask(ctx, "alice", "more"); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after end, got %v", err)
	}
}

func TestManager_SerializesTurnsPerIdentity(t *testing.T) {
	// Arrange: a completion that blocks until released, holding the
	// identity's slot.
	release := make(chan struct{})
	started := make(chan struct{})
	completion := &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, transcript []domain.Turn) (string, error) {
			select {
			case <-started:
			default:
				close(started)
			}
			<-release
			return `{"messages":["ok"]}`, nil
		},
	}
	m, _, _ := newManager(completion)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.Start(ctx, "alice", "Initech", "Backend Engineer", nil)
	}()
	<-started

	// Act: a concurrent turn for the same identity must be rejected.
	_, err := m.Ask(ctx, "alice", "too soon")

	// Assert
	if !errors.Is(err, ErrTurnInFlight) {
		t.Errorf("expected ErrTurnInFlight, got %v", err)
	}
	close(release)
	wg.Wait()
}
