package model

import (
	"time"
)

// Roles known to the system. The role column itself is an open string in the
// database; the API boundary validates against this allow-list.
const (
	RoleAdmin     = "Admin"
	RoleUser      = "User"
	RoleAgent     = "Agent"
	RoleExecutive = "Executive"
)

// Roles lists all valid account roles.
var Roles = []string{RoleAdmin, RoleUser, RoleAgent, RoleExecutive}

// ValidRole reports whether the passed role is part of the allow-list.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Account represents a user account that can log in to the API.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Username is the unique identifier for login; it is immutable after creation
	Username string `gorm:"uniqueIndex" json:"username"`
	// PasswordHash stores the encoded credential. New and updated credentials
	// are always PHC-formatted argon2id hashes; a legacy base64 encoding is
	// still accepted for verification until the account is migrated.
	PasswordHash string `json:"-"`
	// Role is one of the Roles allow-list
	Role string `json:"role"`
	// Status allows disabling an account without deletion
	Status Status `json:"status"`
	// DisplayName is optional, for UI friendliness
	DisplayName string `json:"display_name"`
}

// AccountsStore abstracts CRUD and authentication helpers for accounts.
type AccountsStore interface {
	// Count returns the number of accounts present in the store
	Count() (int64, error)
	// List returns all accounts (without password hashes)
	List() ([]Account, error)
	// Get returns an account by username
	Get(username string) (*Account, error)
	// Create creates an account; the implementation must hash the password
	Create(username, password, role, displayName string) (*Account, error)
	// Update updates display name, role, status and optionally the password
	Update(username string, displayName *string, role *string, newPassword *string, status *Status) (*Account, error)
	// Delete deletes an account by username
	Delete(username string) error
	// Authenticate checks a username/password combo and returns the account.
	// The returned bool reports whether the stored credential was migrated
	// from a legacy encoding during this login.
	Authenticate(username, password string) (*Account, bool, error)
}
