package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

const (
	keyPrefix  = "ticket:"
	defaultTTL = time.Hour
)

// Store issues, resolves and revokes connection tickets. Each ticket maps to
// exactly one owning identity; lookups after TTL expiry behave as absent.
// Concurrent issues for the same identity produce independent tickets.
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

// Issue generates a unique ticket bound to the identity for the fixed TTL.
// Store unavailability is surfaced as an error; retry policy belongs to the
// caller.
func (s *Store) Issue(ctx context.Context, identity string) (string, error) {
	token := uuid.New().String()

	if err := s.cache.Set(ctx, keyPrefix+token, identity, s.ttl); err != nil {
		return "", fmt.Errorf("ticket: store ticket: %w", err)
	}

	telemetry.TicketsIssuedTotal.Inc()
	s.log.Debug("ticket issued",
		zap.String("identity", identity),
		zap.Duration("ttl", s.ttl),
	)
	return token, nil
}

// Resolve returns the owning identity for a ticket, or ok=false when the
// ticket was never issued or has expired.
func (s *Store) Resolve(ctx context.Context, token string) (string, bool, error) {
	identity, err := s.cache.Get(ctx, keyPrefix+token)
	if errors.Is(err, ports.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ticket: resolve ticket: %w", err)
	}
	return identity, true, nil
}

// Revoke deletes a ticket eagerly, before its TTL would expire it.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("ticket: revoke ticket: %w", err)
	}
	return nil
}
