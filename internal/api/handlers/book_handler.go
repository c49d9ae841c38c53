package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/cache"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type BookHandler struct {
	s     service.BookService
	cache *cache.BookCache
}

func NewBookHandler(service service.BookService, cache *cache.BookCache) *BookHandler {
	return &BookHandler{s: service, cache: cache}
}

func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.s.List(c.Context(), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	if books == nil {
		books = []*models.Book{}
	}

	// Consumers may cache for at most the staleness the TTL already allows.
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(h.cache.TTL().Seconds())))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"books": books})
}

func (h *BookHandler) Upsert(c *fiber.Ctx) error {
	var in transfer.BookUpsert
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	book, err := h.s.Upsert(c.Context(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "book": book})
}

func (h *BookHandler) Patch(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}

	var in transfer.BookPatch
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	book, err := h.s.Patch(c.Context(), id, &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "book": book})
}

func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}

	if err := h.s.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
