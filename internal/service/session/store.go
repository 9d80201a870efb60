package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

const (
	keyPrefix  = "session:"
	defaultTTL = 3600 * time.Second
)

// Store persists interview snapshots keyed by identity. The TTL is refreshed
// on every save, so an abandoned session simply ages out. A loaded snapshot
// carries only enough to start a fresh engine; resuming replays the opening
// turn rather than continuing the exact in-memory transcript.
type Store struct {
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewStore(cache ports.Cache, log *zap.Logger) *Store {
	return &Store{
		cache: cache,
		ttl:   defaultTTL,
		log:   log,
	}
}

func (s *Store) Save(ctx context.Context, identity string, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("session: marshal snapshot: %w", err)
	}

	if err := s.cache.Set(ctx, keyPrefix+identity, string(data), s.ttl); err != nil {
		return fmt.Errorf("session: save snapshot: %w", err)
	}

	s.log.Debug("session snapshot saved",
		zap.String("identity", identity),
		zap.Int("transcript_turns", len(snapshot.Transcript)),
	)
	return nil
}

func (s *Store) Load(ctx context.Context, identity string) (domain.Snapshot, bool, error) {
	data, err := s.cache.Get(ctx, keyPrefix+identity)
	if errors.Is(err, ports.ErrCacheMiss) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("session: load snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("session: unmarshal snapshot: %w", err)
	}
	return snapshot, true, nil
}

func (s *Store) Delete(ctx context.Context, identity string) error {
	if err := s.cache.Delete(ctx, keyPrefix+identity); err != nil {
		return fmt.Errorf("session: delete snapshot: %w", err)
	}
	return nil
}
