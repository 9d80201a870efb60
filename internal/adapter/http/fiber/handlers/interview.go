package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

type InterviewHandler struct {
	handshakes ports.HandshakeController
	log        *zap.Logger
}

func NewInterviewHandler(handshakes ports.HandshakeController, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		handshakes: handshakes,
		log:        log,
	}
}

// RequestConnection issues a short-lived ticket the client presents on the
// websocket upgrade. Repeat calls issue fresh tickets for the same session.
func (h *InterviewHandler) RequestConnection(c *fiber.Ctx) error {
	identity := c.Locals("identity").(string) // Assumes middleware sets this

	ticket, err := h.handshakes.RequestConnection(c.Context(), identity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"ticket": ticket})
}

// CheckConnection reports the tri-state handshake status for a ticket.
func (h *InterviewHandler) CheckConnection(c *fiber.Ctx) error {
	identity := c.Locals("identity").(string)

	ticket := c.Query("ticket")
	if ticket == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing ticket"})
	}

	status, err := h.handshakes.CheckConnection(c.Context(), ticket, identity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": string(status)})
}
