package httpx

import (
	"errors"

	"production-manager/internal/database"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgDatabaseUnavailable = "Database connection failed"
	MsgInvalidBody         = "Invalid request body"
)

// StoreError maps a data-access failure to the HTTP error returned to the
// client. An unreachable store gets a fixed message; statement failures
// carry the driver message.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, database.ErrUnavailable) {
		return fiber.NewError(fiber.StatusInternalServerError, MsgDatabaseUnavailable)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

// Message is the {"message": ...} body used by write endpoints.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
