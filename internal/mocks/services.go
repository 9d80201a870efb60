package mocks

import (
	"context"
	"sync"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
)

// MockCompletionClient is a mock implementation of ports.CompletionClient.
type MockCompletionClient struct {
	CompleteFunc func(ctx context.Context, transcript []domain.Turn) (string, error)

	mu    sync.Mutex
	calls [][]domain.Turn
}

func (m *MockCompletionClient) Complete(ctx context.Context, transcript []domain.Turn) (string, error) {
	m.mu.Lock()
	snapshot := make([]domain.Turn, len(transcript))
	copy(snapshot, transcript)
	m.calls = append(m.calls, snapshot)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, transcript)
	}
	return `{"messages":["ok"]}`, nil
}

// Calls returns the transcripts seen by Complete, in call order.
func (m *MockCompletionClient) Calls() [][]domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSynthesizer is a mock implementation of ports.SpeechSynthesizer.
type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return []byte("audio:" + text), nil
}

// MockTicketStore is a mock implementation of ports.TicketStore.
type MockTicketStore struct {
	IssueFunc   func(ctx context.Context, identity string) (string, error)
	ResolveFunc func(ctx context.Context, ticket string) (string, bool, error)
	RevokeFunc  func(ctx context.Context, ticket string) error
}

func (m *MockTicketStore) Issue(ctx context.Context, identity string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, identity)
	}
	return "ticket-" + identity, nil
}

func (m *MockTicketStore) Resolve(ctx context.Context, ticket string) (string, bool, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, ticket)
	}
	return "", false, nil
}

func (m *MockTicketStore) Revoke(ctx context.Context, ticket string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, ticket)
	}
	return nil
}

// MockSessionStore is a mock implementation of ports.SessionStore.
type MockSessionStore struct {
	SaveFunc   func(ctx context.Context, identity string, snapshot domain.Snapshot) error
	LoadFunc   func(ctx context.Context, identity string) (domain.Snapshot, bool, error)
	DeleteFunc func(ctx context.Context, identity string) error

	mu    sync.Mutex
	saved map[string]domain.Snapshot
}

func (m *MockSessionStore) Save(ctx context.Context, identity string, snapshot domain.Snapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, identity, snapshot)
	}
	m.mu.Lock()
	if m.saved == nil {
		m.saved = make(map[string]domain.Snapshot)
	}
	m.saved[identity] = snapshot
	m.mu.Unlock()
	return nil
}

func (m *MockSessionStore) Load(ctx context.Context, identity string) (domain.Snapshot, bool, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.saved[identity]
	return snap, ok, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, identity string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, identity)
	}
	m.mu.Lock()
	delete(m.saved, identity)
	m.mu.Unlock()
	return nil
}

// MockInterviewRepository is a mock implementation of ports.InterviewRepository.
type MockInterviewRepository struct {
	SaveFunc           func(ctx context.Context, record *domain.InterviewRecord) error
	FindByIDFunc       func(ctx context.Context, id string) (*domain.InterviewRecord, error)
	FindByIdentityFunc func(ctx context.Context, identity string, limit, offset int) ([]domain.InterviewRecord, error)
}

func (m *MockInterviewRepository) Save(ctx context.Context, record *domain.InterviewRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	return nil
}

func (m *MockInterviewRepository) FindByID(ctx context.Context, id string) (*domain.InterviewRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockInterviewRepository) FindByIdentity(ctx context.Context, identity string, limit, offset int) ([]domain.InterviewRecord, error) {
	if m.FindByIdentityFunc != nil {
		return m.FindByIdentityFunc(ctx, identity, limit, offset)
	}
	return nil, nil
}
