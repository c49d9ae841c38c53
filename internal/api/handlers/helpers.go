package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/productdigest/content-api/internal/service"
)

// writeError collapses any service failure to a flat {"error": code} body.
// Unknown errors become db_error so driver detail never leaks.
func writeError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Code})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.Is(err, service.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "duplicate"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db_error"})
	}
}

// ErrorHandler is the app-level fiber.Config handler. Framework errors keep
// their status (an unmatched route stays a 404), everything else is an
// infrastructure failure and answers 500 db_error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code := "bad_request"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "not_found"
		case fiber.StatusMethodNotAllowed:
			code = "method_not_allowed"
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": code})
	}
	slog.Info(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db_error"})
}

func parseBody(c *fiber.Ctx, out any) bool {
	return c.BodyParser(out) == nil
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_json"})
}

func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
