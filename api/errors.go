package api

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/tokendesk/tokendesk/storage/model"
)

// storeError maps storage-layer errors to HTTP responses. Typed not-found and
// conflict errors surface as 404/409 with their message; anything else is
// logged with full detail server-side and returned as a generic 500 so that no
// internals leak to the caller.
func storeError(c *fiber.Ctx, err error) error {
	switch err.(type) {
	case model.NotFoundError:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case model.AlreadyExistsError:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	log.WithError(err).Error("storage error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
