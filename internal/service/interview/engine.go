package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// Engine state machine: NOT_STARTED -> STARTED -> ENDED (terminal).
type engineState int

const (
	stateNotStarted engineState = iota
	stateStarted
	stateEnded
)

var (
	ErrAlreadyStarted = errors.New("interview: already started")
	ErrNotStarted     = errors.New("interview: not started")
	ErrEnded          = errors.New("interview: session ended")
)

// pacingInterval is the transcript length at which a synthetic system
// reminder is injected, counting the injections themselves.
const pacingInterval = 15

const pacingReminder = "Reminder: the interview has been running for a while. " +
	"Move from behavioral topics to the required technical questions, or begin wrapping up if they are covered."

const systemPromptTemplate = `You are a professional job interviewer for %s, interviewing a candidate for the role of %s.
Ask one question at a time and react naturally to the candidate's answers.
Over the course of the interview you must cover these required technical questions, in order:
%s
Respond ONLY with a JSON object of the form {"messages": ["utterance", ...]} where each utterance is one spoken sentence or short group of sentences.
Begin with a brief, warm introduction of yourself and the company.`

// Engine holds the dialogue state for one interview session. It is owned by
// exactly one goroutine at a time; the manager serializes access per
// identity.
type Engine struct {
	state      engineState
	company    string
	role       string
	questions  []string
	transcript []domain.Turn
	turns      int

	completion ports.CompletionClient
	log        *zap.Logger
}

func NewEngine(completion ports.CompletionClient, log *zap.Logger) *Engine {
	return &Engine{
		completion: completion,
		log:        log,
	}
}

// Start seeds the transcript with the system instruction and runs one turn
// with an empty user utterance to obtain the opening line.
func (e *Engine) Start(ctx context.Context, company, role string, questions []string) (string, error) {
	if e.state == stateStarted {
		return "", ErrAlreadyStarted
	}
	if e.state == stateEnded {
		return "", ErrEnded
	}

	e.company = company
	e.role = role
	e.questions = append([]string(nil), questions...)

	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
	}

	e.transcript = []domain.Turn{{
		Role:    domain.TurnRoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, company, role, strings.Join(numbered, "\n")),
	}}
	e.state = stateStarted

	reply, err := e.runTurn(ctx, "")
	if err != nil {
		return "", err
	}

	e.log.Info("interview started",
		zap.String("company", company),
		zap.String("role", role),
		zap.Int("questions", len(questions)),
	)
	return reply, nil
}

// AskQuestion appends the candidate's utterance, performs one completion
// round trip and returns the interviewer's reply.
func (e *Engine) AskQuestion(ctx context.Context, text string) (string, error) {
	switch e.state {
	case stateNotStarted:
		return "", ErrNotStarted
	case stateEnded:
		return "", ErrEnded
	}
	return e.runTurn(ctx, text)
}

// End moves the engine to its terminal state.
func (e *Engine) End() {
	e.state = stateEnded
}

// Ended reports whether the engine reached its terminal state.
func (e *Engine) Ended() bool {
	return e.state == stateEnded
}

// Transcript returns a copy of the accumulated transcript.
func (e *Engine) Transcript() []domain.Turn {
	out := make([]domain.Turn, len(e.transcript))
	copy(out, e.transcript)
	return out
}

// Turns returns the number of completed request/response cycles.
func (e *Engine) Turns() int {
	return e.turns
}

// Snapshot captures the state needed to reconstruct the session in a fresh
// process. The state machine itself is not captured; resume replays the
// opening turn.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Company:    e.company,
		Role:       e.role,
		Questions:  append([]string(nil), e.questions...),
		Transcript: e.Transcript(),
	}
}

// runTurn is the single suspension point: append the user turn, one blocking
// completion call, append the assistant turn. No internal retry; I/O errors
// propagate to the caller.
func (e *Engine) runTurn(ctx context.Context, userText string) (string, error) {
	e.appendTurn(domain.Turn{Role: domain.TurnRoleUser, Content: userText})

	reply, err := e.completion.Complete(ctx, e.transcript)
	if err != nil {
		return "", fmt.Errorf("interview: completion turn: %w", err)
	}

	e.appendTurn(domain.Turn{Role: domain.TurnRoleAssistant, Content: reply})
	e.turns++
	return reply, nil
}

// appendTurn injects the pacing reminder whenever the next slot is a
// multiple of pacingInterval, so the reminder itself occupies that slot.
// The check is a deterministic count on transcript length and fires even
// when it coincides with other actions.
func (e *Engine) appendTurn(turn domain.Turn) {
	if (len(e.transcript)+1)%pacingInterval == 0 {
		e.transcript = append(e.transcript, domain.Turn{
			Role:    domain.TurnRoleSystem,
			Content: pacingReminder,
		})
	}
	e.transcript = append(e.transcript, turn)
}
