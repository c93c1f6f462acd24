package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tokendesk/tokendesk/storage/model"
)

// registerLookups wires the agent/executive name lookup endpoints.
func registerLookups(r fiber.Router, tokens model.TokenRecordsStore) {
	r.Get(
		"/agents", func(c *fiber.Ctx) error {
			names, err := tokens.Agents()
			if err != nil {
				return storeError(c, err)
			}
			if names == nil {
				names = []string{}
			}
			return c.JSON(names)
		},
	)
	r.Get(
		"/executives", func(c *fiber.Ctx) error {
			names, err := tokens.Executives()
			if err != nil {
				return storeError(c, err)
			}
			if names == nil {
				names = []string{}
			}
			return c.JSON(names)
		},
	)
}
