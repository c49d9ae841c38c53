package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) Upsert(c *fiber.Ctx) error {
	var in transfer.PostUpsert
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	post, err := h.s.Upsert(c.Context(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"post": transfer.SummarizePost(post),
	})
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), repository.PostFilter{
		Status: c.Query("status"),
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"posts": posts})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Context(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"post": post})
}

func (h *PostHandler) Publish(c *fiber.Ctx) error {
	post, err := h.s.Publish(c.Context(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"post": transfer.SummarizePost(post),
	})
}

func (h *PostHandler) Reschedule(c *fiber.Ctx) error {
	var in transfer.PostReschedule
	if !parseBody(c, &in) {
		return invalidJSON(c)
	}

	post, err := h.s.Reschedule(c.Context(), c.Params("slug"), in.ScheduledAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"post": transfer.SummarizePost(post),
	})
}

func (h *PostHandler) PublishDue(c *fiber.Ctx) error {
	promoted, err := h.s.PublishDue(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	summaries := make([]transfer.PostSummary, 0, len(promoted))
	for _, post := range promoted {
		summaries = append(summaries, transfer.SummarizePost(post))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":             true,
		"publishedCount": len(summaries),
		"posts":          summaries,
	})
}
