package websocket

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/protocol"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/service/speech"
)

// InterviewStreamHandler runs the framed binary protocol over one websocket
// connection per candidate. All outbound frames go through the hub client's
// writer, so the turn pipeline and the read loop never interleave writes.
type InterviewStreamHandler struct {
	hub        *Hub
	handshakes ports.HandshakeController
	interviews ports.InterviewService
	speech     *speech.Orchestrator
	transcribe ports.Transcriber
	identities ports.IdentityService
	log        *zap.Logger
}

func NewInterviewStreamHandler(
	hub *Hub,
	handshakes ports.HandshakeController,
	interviews ports.InterviewService,
	orchestrator *speech.Orchestrator,
	transcriber ports.Transcriber,
	identities ports.IdentityService,
	log *zap.Logger,
) *InterviewStreamHandler {
	return &InterviewStreamHandler{
		hub:        hub,
		handshakes: handshakes,
		interviews: interviews,
		speech:     orchestrator,
		transcribe: transcriber,
		identities: identities,
		log:        log,
	}
}

// HandleInterviewStream authorizes the channel via its ticket, then serves
// frames until the client disconnects or ends the interview.
func (h *InterviewStreamHandler) HandleInterviewStream(c *websocket.Conn) {
	identity, _ := c.Locals("identity").(string)
	ticket := c.Query("ticket")

	ctx := context.Background()

	status, err := h.handshakes.CheckConnection(ctx, ticket, identity)
	if err != nil {
		h.log.Error("Handshake check failed", zap.Error(err))
		c.Close()
		return
	}
	if status != domain.ConnectionInitiated {
		// Explicit status frame before closing so the client can tell
		// "bad ticket" from a transport failure.
		frame, err := protocol.Encode(protocol.MessageAuthRequest, map[string]protocol.Value{
			"status": protocol.String(string(status)),
		}, nil)
		if err == nil {
			c.WriteMessage(websocket.BinaryMessage, frame)
		}
		c.Close()
		return
	}

	client := h.hub.Attach(c, identity)
	defer h.hub.Detach(client)

	h.log.Info("Interview channel open",
		zap.String("identity", identity),
	)

	for {
		messageType, frame, err := c.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			// Structurally truncated frame. Drop it, keep the channel.
			h.log.Warn("Dropping malformed frame", zap.Error(err))
			continue
		}
		telemetry.WireMessagesTotal.WithLabelValues(msg.Kind.String(), "in").Inc()

		if done := h.dispatch(ctx, client, msg); done {
			break
		}
	}
}

// dispatch handles one inbound frame. It returns true when the channel
// should close.
func (h *InterviewStreamHandler) dispatch(ctx context.Context, client *Client, msg protocol.Message) bool {
	switch msg.Kind {
	case protocol.MessageHeartbeat:
		h.send(client, protocol.MessageHeartbeat, msg.Data, nil)
		return false

	case protocol.MessageAuthRequest:
		return h.handleAuthRequest(ctx, client, msg)

	case protocol.MessageClientText:
		return h.handleTextTurn(ctx, client, msg)

	case protocol.MessageClientAudio:
		h.handleClientAudio(ctx, client, msg)
		return false

	default:
		h.log.Warn("Unhandled message kind",
			zap.String("kind", msg.Kind.String()),
		)
		return false
	}
}

// handleAuthRequest re-validates the caller's token mid-channel. A token
// that no longer resolves to this channel's identity closes the channel.
func (h *InterviewStreamHandler) handleAuthRequest(ctx context.Context, client *Client, msg protocol.Message) bool {
	token, _ := stringField(msg, "token")

	resolved, err := h.identities.ResolveIdentity(ctx, token)
	if err != nil || resolved != client.Identity() {
		h.send(client, protocol.MessageAuthRequest, map[string]protocol.Value{
			"status": protocol.String(string(domain.ConnectionUnauthorized)),
		}, nil)
		return true
	}

	h.send(client, protocol.MessageAuthRequest, map[string]protocol.Value{
		"status": protocol.String(string(domain.ConnectionInitiated)),
	}, nil)
	return false
}

// handleTextTurn drives one conversation turn. A frame carrying company and
// role starts the interview; one carrying end finishes it; anything else is
// a free-text reply.
func (h *InterviewStreamHandler) handleTextTurn(ctx context.Context, client *Client, msg protocol.Message) bool {
	if end, ok := msg.Data["end"].AsBool(); ok && end {
		if err := h.interviews.End(ctx, client.Identity()); err != nil {
			h.sendError(client, err)
			return false
		}
		h.send(client, protocol.MessageAIAudio, map[string]protocol.Value{
			"done": protocol.Bool(true),
		}, nil)
		return true
	}

	var (
		segments []string
		err      error
	)
	if company, ok := stringField(msg, "company"); ok {
		role, _ := stringField(msg, "role")
		questions := stringSlice(msg, "questions")
		segments, err = h.interviews.Start(ctx, client.Identity(), company, role, questions)
	} else {
		text, ok := stringField(msg, "message")
		if !ok {
			h.sendError(client, errors.New("client-text-send frame has no message"))
			return false
		}
		segments, err = h.interviews.Ask(ctx, client.Identity(), text)
	}
	if err != nil {
		h.sendError(client, err)
		return false
	}

	h.streamReply(ctx, client, segments)
	return false
}

// streamReply fans the reply segments out to synthesis and forwards each
// resolved event, then a terminal frame.
func (h *InterviewStreamHandler) streamReply(ctx context.Context, client *Client, segments []string) {
	sink := speech.SinkFunc(func(event domain.SpeechEvent) error {
		return h.send(client, protocol.MessageAIAudio, map[string]protocol.Value{
			"order":       protocol.Number(float64(event.Order)),
			"message":     protocol.String(event.Message),
			"audioBase64": protocol.String(event.AudioBase64),
		}, nil)
	})

	if err := h.speech.Stream(ctx, segments, sink); err != nil {
		h.sendError(client, err)
		return
	}
	h.send(client, protocol.MessageAIAudio, map[string]protocol.Value{
		"done": protocol.Bool(true),
	}, nil)
}

// handleClientAudio forwards candidate audio to the transcriber and returns
// the text as a transcription frame. The client decides what to do with it.
func (h *InterviewStreamHandler) handleClientAudio(ctx context.Context, client *Client, msg protocol.Message) {
	if len(msg.Payload) == 0 {
		return
	}

	text, err := h.transcribe.Transcribe(ctx, msg.Payload)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.send(client, protocol.MessageTranscription, map[string]protocol.Value{
		"message": protocol.String(text),
	}, nil)
}

func (h *InterviewStreamHandler) send(client *Client, kind protocol.MessageKind, data map[string]protocol.Value, payload []byte) error {
	frame, err := protocol.Encode(kind, data, payload)
	if err != nil {
		h.log.Error("Could not encode frame", zap.Error(err))
		return err
	}
	telemetry.WireMessagesTotal.WithLabelValues(kind.String(), "out").Inc()
	return client.Send(frame)
}

func (h *InterviewStreamHandler) sendError(client *Client, err error) {
	h.log.Warn("Turn failed",
		zap.String("identity", client.Identity()),
		zap.Error(err),
	)
	h.send(client, protocol.MessageAIAudio, map[string]protocol.Value{
		"error": protocol.String(err.Error()),
	}, nil)
}

func stringField(msg protocol.Message, key string) (string, bool) {
	value, ok := msg.Data[key]
	if !ok {
		return "", false
	}
	return value.AsString()
}

func stringSlice(msg protocol.Message, key string) []string {
	value, ok := msg.Data[key]
	if !ok {
		return nil
	}
	items, ok := value.AsArray()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// SetupInterviewRoutes wires the websocket upgrade path. The auth middleware
// must already have resolved the identity into locals.
func SetupInterviewRoutes(app *fiber.App, handler *InterviewStreamHandler, authRequired fiber.Handler) {
	app.Use("/ws/interview", authRequired, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/interview", websocket.New(handler.HandleInterviewStream))
}
