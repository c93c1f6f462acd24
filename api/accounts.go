package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tokendesk/tokendesk/storage/model"
)

// registerAccounts wires the account management handlers.
func registerAccounts(r fiber.Router, accounts model.AccountsStore) {
	g := r.Group("/users")
	g.Use(authMiddleware(accounts))

	g.Get("/", func(c *fiber.Ctx) error {
		list, err := accounts.List()
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(list)
	})

	type createReq struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		DisplayName string `json:"display_name"`
	}
	g.Post("/", func(c *fiber.Ctx) error {
		var req createReq
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if req.Username == "" || req.Password == "" {
			return badRequest(c, "username and password are required")
		}
		if req.Role == "" {
			req.Role = model.RoleUser
		}
		if !model.ValidRole(req.Role) {
			return badRequest(c, "invalid role")
		}
		a, err := accounts.Create(req.Username, req.Password, req.Role, req.DisplayName)
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	type updateReq struct {
		DisplayName *string       `json:"display_name"`
		Role        *string       `json:"role"`
		Password    *string       `json:"password"`
		Status      *model.Status `json:"status"`
	}
	g.Put("/:username", func(c *fiber.Ctx) error {
		username := c.Params("username")
		var req updateReq
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if req.Role != nil && !model.ValidRole(*req.Role) {
			return badRequest(c, "invalid role")
		}
		if req.Status != nil && !req.Status.Valid() {
			return badRequest(c, "invalid status")
		}
		a, err := accounts.Update(username, req.DisplayName, req.Role, req.Password, req.Status)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(a)
	})

	g.Get("/:username", func(c *fiber.Ctx) error {
		a, err := accounts.Get(c.Params("username"))
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(a)
	})

	g.Delete("/:username", func(c *fiber.Ctx) error {
		if err := accounts.Delete(c.Params("username")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
