package handler

import (
	"errors"

	"go-pos-receipts/internal/money"
	"go-pos-receipts/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps service errors onto HTTP statuses: absence is 404, a
// taken receipt number is 409, rejected input is 400, everything else is a
// persistence failure.
func respondError(c *fiber.Ctx, err error) error {
	var sve *service.ValidationError
	var mve *money.ValidationError

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateReceiptNumber):
		status = fiber.StatusConflict
	case errors.As(err, &sve), errors.As(err, &mve):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
