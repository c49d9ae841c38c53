package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type SubscriberHandler struct {
	s service.SubscriberService
}

func NewSubscriberHandler(service service.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{s: service}
}

func (h *SubscriberHandler) Subscribe(c *fiber.Ctx) error {
	var in transfer.SubscriberCreate
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	if err := h.s.Subscribe(c.Context(), in.Email); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
