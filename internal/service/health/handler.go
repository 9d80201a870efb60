package health

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler provides Fiber-compatible health check handlers
type FiberHandler struct {
	service *Service
}

// NewFiberHandler creates a new Fiber health handler
func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

// Health handles liveness probe requests
func (h *FiberHandler) Health(c *fiber.Ctx) error {
	response := h.service.Health(c.Context())
	return c.Status(fiber.StatusOK).JSON(response)
}

// Ready handles readiness probe requests
func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	response := h.service.Ready(c.Context())

	status := fiber.StatusOK
	if !response.Ready {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(response)
}

// RegisterRoutes registers health check routes on a Fiber app
func (h *FiberHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/health/live", h.Health)
	app.Get("/health/ready", h.Ready)
	app.Get("/livez", h.Health)
	app.Get("/readyz", h.Ready)
}
