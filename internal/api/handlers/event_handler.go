package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type EventHandler struct {
	s service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{s: service}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.s.List(c.Context(),
		c.Query("public") == "true",
		c.QueryInt("limit", 0),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return writeError(c, err)
	}
	if events == nil {
		events = []*models.Event{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"events": events})
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var in transfer.EventCreate
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	event, err := h.s.Create(c.Context(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "event": event})
}

func (h *EventHandler) Patch(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}

	var in transfer.EventPatch
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	event, err := h.s.Patch(c.Context(), id, &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "event": event})
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}

	if err := h.s.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
