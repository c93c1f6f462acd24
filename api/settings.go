package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/tokendesk/tokendesk/storage/model"
)

// registerSettings wires the persisted UI preference handlers. The scope query
// parameter defaults to the ui scope; values are arbitrary JSON documents.
func registerSettings(r fiber.Router, accounts model.AccountsStore, settings model.SettingsStore) {
	g := r.Group("/settings")
	g.Use(authMiddleware(accounts))

	scopeOf := func(c *fiber.Ctx) string {
		if s := c.Query("scope"); s != "" {
			return s
		}
		return model.SettingsScopeUI
	}

	g.Get("/", func(c *fiber.Ctx) error {
		entries, err := settings.List(scopeOf(c))
		if err != nil {
			return storeError(c, err)
		}
		out := make(map[string]json.RawMessage, len(entries))
		for _, entry := range entries {
			out[entry.Key] = json.RawMessage(entry.Value)
		}
		return c.JSON(out)
	})

	g.Get("/:key", func(c *fiber.Ctx) error {
		value, err := settings.Get(scopeOf(c), c.Params("key"))
		if err != nil {
			return storeError(c, err)
		}
		if value == nil {
			return storeError(c, model.NotFoundErrorFmt("setting not found: %s", c.Params("key")))
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(value)
	})

	g.Put("/:key", func(c *fiber.Ctx) error {
		body := c.Body()
		if !json.Valid(body) {
			return badRequest(c, "value must be valid json")
		}
		if err := settings.Set(scopeOf(c), c.Params("key"), datatypes.JSON(body)); err != nil {
			return storeError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	g.Delete("/:key", func(c *fiber.Ctx) error {
		if err := settings.Delete(scopeOf(c), c.Params("key")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
