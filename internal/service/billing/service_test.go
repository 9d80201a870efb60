package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordedCharge struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

type mockCharger struct {
	charges []recordedCharge
	err     error
}

func (m *mockCharger) Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.charges = append(m.charges, recordedCharge{Amount: amountCents, Currency: currency, Metadata: metadata})
	return "pi_test", nil
}

func TestRecordUsageMetersTurnsAndMinutes(t *testing.T) {
	// Arrange
	charger := &mockCharger{}
	service := NewService(charger, Config{Currency: "usd", CentsPerTurn: 5, CentsPerMinute: 2}, zap.NewNop())

	// Act: 12 turns over 25m30s rounds duration up to 26 minutes.
	err := service.RecordUsage(context.Background(), "user@example.com", 12, 25*time.Minute+30*time.Second)

	// Assert
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if len(charger.charges) != 1 {
		t.Fatalf("recorded %d charges, want 1", len(charger.charges))
	}
	charge := charger.charges[0]
	if want := int64(12*5 + 26*2); charge.Amount != want {
		t.Errorf("amount = %d cents, want %d", charge.Amount, want)
	}
	if charge.Metadata["identity"] != "user@example.com" {
		t.Errorf("metadata identity = %q", charge.Metadata["identity"])
	}
	if charge.Metadata["turns"] != "12" {
		t.Errorf("metadata turns = %q", charge.Metadata["turns"])
	}
}

func TestRecordUsageAppliesMinimum(t *testing.T) {
	charger := &mockCharger{}
	service := NewService(charger, Config{Currency: "usd", CentsPerTurn: 5, CentsPerMinute: 2, MinimumCents: 50}, zap.NewNop())

	if err := service.RecordUsage(context.Background(), "u", 1, time.Minute); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if charger.charges[0].Amount != 50 {
		t.Errorf("amount = %d, want minimum 50", charger.charges[0].Amount)
	}
}

func TestRecordUsageZeroAmountSkipsCharge(t *testing.T) {
	charger := &mockCharger{}
	service := NewService(charger, Config{Currency: "usd"}, zap.NewNop())

	if err := service.RecordUsage(context.Background(), "u", 0, 0); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if len(charger.charges) != 0 {
		t.Errorf("zero-amount usage must not reach the provider, got %d charges", len(charger.charges))
	}
}

func TestRecordUsageProviderFailure(t *testing.T) {
	charger := &mockCharger{err: errors.New("card declined")}
	service := NewService(charger, DefaultConfig(), zap.NewNop())

	err := service.RecordUsage(context.Background(), "u", 3, time.Minute)
	if err == nil {
		t.Fatal("expected error when charger fails")
	}
	if !strings.Contains(err.Error(), "card declined") {
		t.Errorf("error %q does not wrap provider failure", err)
	}
}
