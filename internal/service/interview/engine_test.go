package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func startedEngine(t *testing.T, completion *mocks.MockCompletionClient) *Engine {
	t.Helper()
	engine := NewEngine(completion, newTestLogger())
	if _, err := engine.Start(context.Background(), "Initech", "Backend Engineer", []string{"Explain channels"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return engine
}

func TestStart_SeedsSystemTurnFirst(t *testing.T) {
	// Arrange
	completion := &mocks.MockCompletionClient{}

	// Act
	engine := startedEngine(t, completion)

	// Assert
	transcript := engine.Transcript()
	if len(transcript) == 0 {
		t.Fatal("expected a transcript")
	}
	if transcript[0].Role != domain.TurnRoleSystem {
		t.Errorf("expected first turn role system, got %s", transcript[0].Role)
	}
	for _, turn := range transcript[1:] {
		if turn.Role == domain.TurnRoleSystem && turn.Content == transcript[0].Content {
			t.Error("system instruction must be unique")
		}
	}
	if !strings.Contains(transcript[0].Content, "Initech") ||
		!strings.Contains(transcript[0].Content, "Backend Engineer") ||
		!strings.Contains(transcript[0].Content, "Explain channels") {
		t.Error("system instruction must carry company, role and questions")
	}
}

func TestStart_TwiceFailsWithIllegalState(t *testing.T) {
	engine := startedEngine(t, &mocks.MockCompletionClient{})

	_, err := engine.Start(context.Background(), "Initech", "Backend Engineer", nil)
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestAskQuestion_BeforeStartFailsWithIllegalState(t *testing.T) {
	engine := NewEngine(&mocks.MockCompletionClient{}, newTestLogger())

	_, err := engine.AskQuestion(context.Background(), "hello")
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}

func TestAskQuestion_AfterEndFails(t *testing.T) {
	engine := startedEngine(t, &mocks.MockCompletionClient{})
	engine.End()

	_, err := engine.AskQuestion(context.Background(), "hello")
	if !errors.Is(err, ErrEnded) {
		t.Errorf("expected ErrEnded, got %v", err)
	}
}

func TestAskQuestion_AppendsTurnsInOrder(t *testing.T) {
	// Arrange
	completion := &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, transcript []domain.Turn) (string, error) {
			return `{"messages":["noted"]}`, nil
		},
	}
	engine := startedEngine(t, completion)
	before := len(engine.Transcript())

	// Act
	reply, err := engine.AskQuestion(context.Background(), "I used channels for fan-in")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != `{"messages":["noted"]}` {
		t.Errorf("unexpected reply %q", reply)
	}
	transcript := engine.Transcript()
	if len(transcript) != before+2 {
		t.Fatalf("expected 2 appended turns, got %d", len(transcript)-before)
	}
	if transcript[before].Role != domain.TurnRoleUser || transcript[before+1].Role != domain.TurnRoleAssistant {
		t.Errorf("unexpected turn roles: %s, %s", transcript[before].Role, transcript[before+1].Role)
	}
}

func TestAskQuestion_CompletionErrorPropagates(t *testing.T) {
	completion := &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, transcript []domain.Turn) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}
	engine := NewEngine(completion, newTestLogger())
	if _, err := engine.Start(context.Background(), "Initech", "Backend Engineer", nil); err == nil {
		t.Fatal("expected start to surface the completion error")
	}
}

func TestPacing_ReminderAtFifteenthTurn(t *testing.T) {
	// Arrange
	engine := startedEngine(t, &mocks.MockCompletionClient{})

	// Act: keep asking until the transcript passes the pacing boundary.
	for len(engine.Transcript()) < pacingInterval+2 {
		if _, err := engine.AskQuestion(context.Background(), "answer"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	// Assert: slot 15 (counting the injection itself) is the reminder.
	transcript := engine.Transcript()
	reminder := transcript[pacingInterval-1]
	if reminder.Role != domain.TurnRoleSystem || reminder.Content != pacingReminder {
		t.Errorf("expected pacing reminder at position %d, got %+v", pacingInterval, reminder)
	}

	// No earlier reminder slipped in.
	for i, turn := range transcript[1 : pacingInterval-1] {
		if turn.Content == pacingReminder {
			t.Errorf("unexpected reminder at position %d", i+2)
		}
	}
}

func TestSnapshot_CapturesSessionParameters(t *testing.T) {
	engine := startedEngine(t, &mocks.MockCompletionClient{})

	snapshot := engine.Snapshot()
	if snapshot.Company != "Initech" || snapshot.Role != "Backend Engineer" {
		t.Errorf("snapshot mismatch: %+v", snapshot)
	}
	if len(snapshot.Questions) != 1 || snapshot.Questions[0] != "Explain channels" {
		t.Errorf("questions mismatch: %v", snapshot.Questions)
	}
	if len(snapshot.Transcript) == 0 {
		t.Error("snapshot must carry the transcript")
	}
}
