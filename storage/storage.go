package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tokendesk/tokendesk/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db         *gorm.DB
	hashParams Argon2idParams
	lookups    *LookupCache
}

var models = []any{
	&model.Account{},
	&model.TokenRecord{},
	&model.Setting{},
}

// NewStorage creates a new GORM-based storage. The lookups cache may be nil.
func NewStorage(config Config, lookups *LookupCache) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Fill hash params with defaults if zero values
	params := config.PasswordHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	return &Storage{
		db:         db,
		hashParams: params,
		lookups:    lookups,
	}, nil
}

// Backends returns the grouped storage interfaces backed by this Storage.
func (s *Storage) Backends() model.Backends {
	return model.Backends{
		Accounts: s.AccountsStorage(),
		Tokens:   s.TokenRecordsStorage(),
		Settings: s.SettingsStorage(),
	}
}
