package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/adapter/queue"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// Queue subjects for interview lifecycle events.
const (
	SubjectStarted   = "interview.started"
	SubjectCompleted = "interview.completed"
)

// ErrTurnInFlight is returned when a second turn is attempted for an
// identity while one is still running. Turns within a session are strictly
// sequential.
var ErrTurnInFlight = errors.New("interview: a turn is already in flight for this identity")

// ErrNoSession is returned when Ask is called for an identity with no live
// engine and no resumable snapshot.
var ErrNoSession = errors.New("interview: no session for this identity")

type slot struct {
	mu        sync.Mutex
	engine    *Engine
	startedAt time.Time
}

// Manager runs interview turns, one engine per identity, serializing access
// so at most one turn per identity is in flight. Sessions survive process
// restarts through the session store: a follow-up turn on a fresh process
// rebuilds the engine from the snapshot and replays the opening turn.
type Manager struct {
	completion ports.CompletionClient
	sessions   ports.SessionStore
	repo       ports.InterviewRepository
	mq         queue.MessageQueue
	log        *zap.Logger

	mu    sync.Mutex
	slots map[string]*slot
}

func NewManager(
	completion ports.CompletionClient,
	sessions ports.SessionStore,
	repo ports.InterviewRepository,
	mq queue.MessageQueue,
	log *zap.Logger,
) *Manager {
	return &Manager{
		completion: completion,
		sessions:   sessions,
		repo:       repo,
		mq:         mq,
		log:        log,
		slots:      make(map[string]*slot),
	}
}

func (m *Manager) slotFor(identity string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[identity]
	if !ok {
		s = &slot{}
		m.slots[identity] = s
	}
	return s
}

// Start begins a new interview for the identity and returns the opening
// reply split into ordered utterances.
func (m *Manager) Start(ctx context.Context, identity, company, role string, questions []string) ([]string, error) {
	s := m.slotFor(identity)
	if !s.mu.TryLock() {
		return nil, ErrTurnInFlight
	}
	defer s.mu.Unlock()

	if s.engine != nil && !s.engine.Ended() {
		return nil, ErrAlreadyStarted
	}

	engine := NewEngine(m.completion, m.log)
	reply, err := engine.Start(ctx, company, role, questions)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.startedAt = time.Now()

	if err := m.sessions.Save(ctx, identity, engine.Snapshot()); err != nil {
		m.log.Warn("failed to persist session snapshot", zap.Error(err))
	}
	m.publish(SubjectStarted, map[string]string{
		"identity": identity,
		"company":  company,
		"role":     role,
	})
	telemetry.InterviewTurnsTotal.WithLabelValues("start").Inc()

	return ParseReply(reply), nil
}

// Ask runs one turn for the identity, resuming from the persisted snapshot
// when no live engine exists. The resumed engine replays the opening turn;
// its text may differ from the original opening, which callers tolerate.
func (m *Manager) Ask(ctx context.Context, identity, text string) ([]string, error) {
	s := m.slotFor(identity)
	if !s.mu.TryLock() {
		return nil, ErrTurnInFlight
	}
	defer s.mu.Unlock()

	if s.engine == nil {
		engine, err := m.resume(ctx, identity)
		if err != nil {
			return nil, err
		}
		s.engine = engine
		s.startedAt = time.Now()
	}

	reply, err := s.engine.AskQuestion(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := m.sessions.Save(ctx, identity, s.engine.Snapshot()); err != nil {
		m.log.Warn("failed to persist session snapshot", zap.Error(err))
	}
	telemetry.InterviewTurnsTotal.WithLabelValues("ask").Inc()

	return ParseReply(reply), nil
}

// End terminates the identity's session, archives the transcript and
// publishes the completion event.
func (m *Manager) End(ctx context.Context, identity string) error {
	s := m.slotFor(identity)
	if !s.mu.TryLock() {
		return ErrTurnInFlight
	}
	defer s.mu.Unlock()

	if s.engine == nil {
		return ErrNoSession
	}

	snapshot := s.engine.Snapshot()
	turns := s.engine.Turns()
	startedAt := s.startedAt
	s.engine.End()
	s.engine = nil

	if err := m.sessions.Delete(ctx, identity); err != nil {
		m.log.Warn("failed to delete session snapshot", zap.Error(err))
	}

	record := buildRecord(identity, snapshot, turns, startedAt)
	if m.repo != nil {
		if err := m.repo.Save(ctx, record); err != nil {
			m.log.Error("failed to archive interview", zap.Error(err))
		}
	}
	m.publish(SubjectCompleted, record)

	m.log.Info("interview ended",
		zap.String("identity", identity),
		zap.Int("turns", turns),
	)
	return nil
}

func (m *Manager) resume(ctx context.Context, identity string) (*Engine, error) {
	snapshot, ok, err := m.sessions.Load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !ok || snapshot.Company == "" {
		return nil, ErrNoSession
	}

	engine := NewEngine(m.completion, m.log)
	if _, err := engine.Start(ctx, snapshot.Company, snapshot.Role, snapshot.Questions); err != nil {
		return nil, fmt.Errorf("interview: resume session: %w", err)
	}

	m.log.Info("session resumed from snapshot",
		zap.String("identity", identity),
		zap.String("company", snapshot.Company),
	)
	return engine, nil
}

func (m *Manager) publish(subject string, payload interface{}) {
	if m.mq == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		m.log.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := m.mq.Publish(subject, data); err != nil {
		m.log.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func buildRecord(identity string, snapshot domain.Snapshot, turns int, startedAt time.Time) *domain.InterviewRecord {
	questions, _ := json.Marshal(snapshot.Questions)
	transcript, _ := json.Marshal(snapshot.Transcript)
	now := time.Now()
	if startedAt.IsZero() {
		startedAt = now
	}
	return &domain.InterviewRecord{
		ID:         uuid.New().String(),
		Identity:   identity,
		Company:    snapshot.Company,
		Role:       snapshot.Role,
		Questions:  string(questions),
		Transcript: string(transcript),
		TurnCount:  turns,
		StartedAt:  startedAt,
		EndedAt:    now,
		CreatedAt:  now,
	}
}
