package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type LikeHandler struct {
	s service.LikeService
}

func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{s: service}
}

func (h *LikeHandler) Get(c *fiber.Ctx) error {
	slug := c.Query("slug")
	likes, err := h.s.Get(c.Context(), slug)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"slug": slug, "likes": likes})
}

func (h *LikeHandler) Increment(c *fiber.Ctx) error {
	var in transfer.LikeCreate
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	likes, err := h.s.Increment(c.Context(), in.Slug)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "slug": in.Slug, "likes": likes})
}
