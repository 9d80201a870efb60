package billing

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Charger settles a single usage charge with the payment provider and
// returns the provider's charge ID.
type Charger interface {
	Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, error)
}

// Config holds the metering rates. Amounts are in cents.
type Config struct {
	Currency       string
	CentsPerTurn   int64
	CentsPerMinute int64
	// MinimumCents is charged even for sessions shorter than the rates
	// would bill. Zero disables the floor.
	MinimumCents int64
}

func DefaultConfig() Config {
	return Config{
		Currency:       "usd",
		CentsPerTurn:   5,
		CentsPerMinute: 2,
		MinimumCents:   50,
	}
}

// Service meters completed interview sessions against the payment provider.
type Service struct {
	charger Charger
	config  Config
	log     *zap.Logger
}

func NewService(charger Charger, config Config, log *zap.Logger) *Service {
	return &Service{
		charger: charger,
		config:  config,
		log:     log,
	}
}

// RecordUsage bills one completed session. Duration is rounded up to whole
// minutes; turns below zero are treated as zero.
func (s *Service) RecordUsage(ctx context.Context, identity string, turns int, duration time.Duration) error {
	if turns < 0 {
		turns = 0
	}
	minutes := int64(math.Ceil(duration.Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	amount := int64(turns)*s.config.CentsPerTurn + minutes*s.config.CentsPerMinute
	if amount < s.config.MinimumCents {
		amount = s.config.MinimumCents
	}
	if amount == 0 {
		return nil
	}

	metadata := map[string]string{
		"identity":         identity,
		"turns":            fmt.Sprintf("%d", turns),
		"duration_minutes": fmt.Sprintf("%d", minutes),
	}

	chargeID, err := s.charger.Charge(ctx, amount, s.config.Currency, metadata)
	if err != nil {
		return fmt.Errorf("billing: record usage for %s: %w", identity, err)
	}

	s.log.Info("Recorded interview usage",
		zap.String("identity", identity),
		zap.Int("turns", turns),
		zap.Int64("amount_cents", amount),
		zap.String("charge_id", chargeID),
	)
	return nil
}
