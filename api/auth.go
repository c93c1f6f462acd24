package api

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/tokendesk/tokendesk/storage/model"
)

// registerAuth wires the login endpoint.
func registerAuth(r fiber.Router, accounts model.AccountsStore) {
	type loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	r.Post(
		"/login", func(c *fiber.Ctx) error {
			var req loginReq
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "invalid body")
			}
			if req.Username == "" || req.Password == "" {
				return badRequest(c, "username and password are required")
			}
			account, migrated, err := accounts.Authenticate(req.Username, req.Password)
			if err != nil {
				if errors.Is(err, model.ErrInvalidCredentials) {
					// Unknown usernames and wrong passwords get the exact
					// same response; nothing about the failure cause or the
					// attempted credentials is logged.
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
				}
				return storeError(c, err)
			}
			message := "login successful"
			if migrated {
				message = "login successful, credentials upgraded"
			}
			return c.JSON(
				fiber.Map{
					"message":  message,
					"username": account.Username,
					"role":     account.Role,
				},
			)
		},
	)
}

// authMiddleware enforces optional authentication for the account management
// routes. If there are no accounts in storage, all requests are allowed.
// If there is at least one account, it requires HTTP Basic authentication
// and validates credentials using AccountsStore.
func authMiddleware(accounts model.AccountsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// If no accounts are configured, allow access
		count, err := accounts.Count()
		if err != nil {
			return storeError(c, err)
		}
		if count == 0 {
			return c.Next()
		}

		// Require Basic auth
		username, password, ok := parseBasicAuth(c)
		if !ok {
			c.Set("WWW-Authenticate", "Basic realm=tokendesk")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
		}
		// Validate credentials
		if _, _, err = accounts.Authenticate(username, password); err != nil {
			if errors.Is(err, model.ErrInvalidCredentials) {
				c.Set("WWW-Authenticate", "Basic realm=tokendesk")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
			}
			return storeError(c, err)
		}
		// All good
		return c.Next()
	}
}

// parseBasicAuth extracts Basic auth credentials from request headers
func parseBasicAuth(c *fiber.Ctx) (username, password string, ok bool) {
	auth := string(c.Request().Header.Peek("Authorization"))
	if auth == "" {
		return "", "", false
	}
	const prefix = "Basic "
	if !strings.HasPrefix(auth, prefix) {
		return "", "", false
	}
	b, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
	if err != nil {
		return "", "", false
	}
	creds := string(b)
	i := strings.IndexByte(creds, ':')
	if i < 0 {
		return "", "", false
	}
	return creds[:i], creds[i+1:], true
}
