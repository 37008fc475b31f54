package handlers

import (
	"errors"

	"github.com/enyekk7/froth-pet/apperrors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ok wraps data in the success envelope the clients expect.
func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// fail maps an error to its status and emits the failure envelope with the
// stable code so clients can show a specific message.
func fail(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else {
		log.WithError(err).Error("request failed")
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    apperrors.Code(err),
	})
}
