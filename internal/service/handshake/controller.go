package handshake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// Controller composes the ticket store with the session store to gate
// real-time channel establishment. The check is deliberately tri-state:
// "exists but not yours" must be distinguishable from "exists and is yours"
// without revealing someone else's ticket.
type Controller struct {
	tickets  ports.TicketStore
	sessions ports.SessionStore
	log      *zap.Logger
}

func NewController(tickets ports.TicketStore, sessions ports.SessionStore, log *zap.Logger) *Controller {
	return &Controller{
		tickets:  tickets,
		sessions: sessions,
		log:      log,
	}
}

// RequestConnection creates a session shell for the identity and issues a
// ticket tied to it.
func (c *Controller) RequestConnection(ctx context.Context, identity string) (string, error) {
	// The shell reserves the session slot; the engine fills it on Start.
	if _, ok, err := c.sessions.Load(ctx, identity); err != nil {
		return "", fmt.Errorf("handshake: load session: %w", err)
	} else if !ok {
		if err := c.sessions.Save(ctx, identity, domain.Snapshot{}); err != nil {
			return "", fmt.Errorf("handshake: create session shell: %w", err)
		}
	}

	ticket, err := c.tickets.Issue(ctx, identity)
	if err != nil {
		return "", err
	}

	c.log.Info("connection requested",
		zap.String("identity", identity),
	)
	return ticket, nil
}

// CheckConnection validates a ticket against the requesting identity.
// Tickets stay valid until their TTL expires; a successful check does not
// consume them, so a dropped websocket can re-present the same ticket.
func (c *Controller) CheckConnection(ctx context.Context, ticket, identity string) (domain.ConnectionStatus, error) {
	owner, ok, err := c.tickets.Resolve(ctx, ticket)
	if err != nil {
		return domain.ConnectionNotInitiated, err
	}
	if !ok {
		return domain.ConnectionNotInitiated, nil
	}
	if owner != identity {
		c.log.Warn("ticket presented by wrong identity",
			zap.String("identity", identity),
		)
		return domain.ConnectionUnauthorized, nil
	}
	return domain.ConnectionInitiated, nil
}
