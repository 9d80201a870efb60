package domain

import (
	"time"
)

type TurnRole string

const (
	TurnRoleSystem    TurnRole = "system"
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is one role-tagged entry in an interview transcript.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// Snapshot is the minimal persisted representation of an interview session.
// It carries enough to reconstruct a fresh engine for a follow-up turn; the
// in-memory state machine itself is never persisted.
type Snapshot struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Questions  []string `json:"questions"`
	Transcript []Turn   `json:"transcript"`
}

// InterviewRecord is the archived form of a completed interview, persisted
// once the session ends.
type InterviewRecord struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Identity   string    `json:"identity" gorm:"index"`
	Company    string    `json:"company"`
	Role       string    `json:"role"`
	Questions  string    `json:"questions" gorm:"type:text"`  // JSON-encoded ordered list
	Transcript string    `json:"transcript" gorm:"type:text"` // JSON-encoded turns
	TurnCount  int       `json:"turn_count"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConnectionStatus is the tri-state result of a handshake check. "Exists but
// not yours" must be distinguishable from "exists and is yours" without
// leaking other users' tickets.
type ConnectionStatus string

const (
	ConnectionNotInitiated ConnectionStatus = "not-initiated"
	ConnectionUnauthorized ConnectionStatus = "unauthorized"
	ConnectionInitiated    ConnectionStatus = "initiated"
)
