// Package api contains the fiber handlers for the tokendesk HTTP API.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tokendesk/tokendesk/storage/model"
)

// Register mounts all API routes under the provided router.
func Register(r fiber.Router, storages model.Backends) {
	// Login
	registerAuth(r, storages.Accounts)
	// Account management; guarded by Basic auth once accounts exist
	registerAccounts(r, storages.Accounts)
	// Token records, lookups, reports, bulk operations, export
	registerTokens(r, storages.Tokens)
	registerLookups(r, storages.Tokens)
	// Persisted UI preferences
	registerSettings(r, storages.Accounts, storages.Settings)
}
