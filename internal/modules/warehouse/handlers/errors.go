package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidWeekday),
		errors.Is(err, services.ErrInvalidPeriod):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrNothingDeducted):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrParseFailure):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes {"error": ...}. Internal errors are logged and
// replaced with a generic message.
func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
