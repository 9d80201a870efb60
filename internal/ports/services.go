package ports

import (
	"context"
	"time"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
)

// Cache is the shared, externally synchronized key-value store with TTL
// semantics that backs tickets and session snapshots. Per-key reads and
// writes are atomic; cross-key consistency is last-write-wins.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// TicketStore issues, resolves and revokes short-lived connection tickets
// bound to an identity.
type TicketStore interface {
	Issue(ctx context.Context, identity string) (string, error)
	Resolve(ctx context.Context, ticket string) (string, bool, error)
	Revoke(ctx context.Context, ticket string) error
}

// SessionStore persists interview snapshots keyed by identity with a
// refresh-on-save TTL.
type SessionStore interface {
	Save(ctx context.Context, identity string, snapshot domain.Snapshot) error
	Load(ctx context.Context, identity string) (domain.Snapshot, bool, error)
	Delete(ctx context.Context, identity string) error
}

// HandshakeController gates real-time channel establishment.
type HandshakeController interface {
	RequestConnection(ctx context.Context, identity string) (string, error)
	CheckConnection(ctx context.Context, ticket, identity string) (domain.ConnectionStatus, error)
}

// CompletionClient is the external language-model endpoint: ordered
// role-tagged turns in, single free-text reply out. One round trip per turn,
// no internal retry.
type CompletionClient interface {
	Complete(ctx context.Context, transcript []domain.Turn) (string, error)
}

// SpeechSynthesizer is the external text-to-speech endpoint: text in, raw
// audio bytes out.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber converts client audio into text. Implementations may hold a
// streaming connection to the provider.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// IdentityService resolves a bearer token to the opaque identity used as a
// store key. Authentication itself lives outside the core.
type IdentityService interface {
	ResolveIdentity(ctx context.Context, token string) (string, error)
}

// InterviewService runs turns for one identity, serializing access so at
// most one turn per identity is in flight.
type InterviewService interface {
	Start(ctx context.Context, identity, company, role string, questions []string) ([]string, error)
	Ask(ctx context.Context, identity, text string) ([]string, error)
	End(ctx context.Context, identity string) error
}

// EmailService delivers the post-interview summary.
type EmailService interface {
	SendInterviewSummary(ctx context.Context, to string, record *domain.InterviewRecord) error
}

// BillingService records metered interview usage.
type BillingService interface {
	RecordUsage(ctx context.Context, identity string, turns int, duration time.Duration) error
}
