package storage

import (
	log "github.com/sirupsen/logrus"

	"github.com/tokendesk/tokendesk/storage/model"
)

// SeedAccount describes one account that should exist after bootstrap.
type SeedAccount struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	DisplayName string `yaml:"display_name"`
}

// DefaultSeedAccounts returns the well-known default account set.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Password: "admin123", Role: model.RoleAdmin, DisplayName: "Administrator"},
		{Username: "user", Password: "user123", Role: model.RoleUser, DisplayName: "User"},
		{Username: "agent", Password: "agent123", Role: model.RoleAgent, DisplayName: "Agent"},
		{Username: "executive", Password: "executive123", Role: model.RoleExecutive, DisplayName: "Executive"},
	}
}

// SeedAccounts creates each passed account unless it already exists.
// Seeding is keyed per username, not on an empty store, so a run that was
// interrupted mid-way completes itself on the next start.
func (s *Storage) SeedAccounts(accounts []SeedAccount) error {
	store := s.AccountsStorage()
	for _, seed := range accounts {
		_, err := store.Create(seed.Username, seed.Password, seed.Role, seed.DisplayName)
		if err != nil {
			if _, exists := err.(model.AlreadyExistsError); exists {
				continue
			}
			return err
		}
		log.WithField("username", seed.Username).WithField("role", seed.Role).Info("seeded account")
	}
	return nil
}
