package storage

import (
	"database/sql"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tokendesk/tokendesk/storage/model"
)

// SettingsStorage implements model.SettingsStore using GORM.
type SettingsStorage struct {
	db *gorm.DB
}

// SettingsStorage provides an accessor for scoped settings storage.
func (s *Storage) SettingsStorage() *SettingsStorage {
	return &SettingsStorage{db: s.db}
}

// Get returns the JSON value for a (scope, key). If not found, returns nil, nil.
func (s *SettingsStorage) Get(scope, key string) (datatypes.JSON, error) {
	// Read the JSON/JSONB value as raw bytes to support scalar JSON (e.g., numbers).
	var raw []byte
	row := s.db.Model(&model.Setting{}).
		Select("value").
		Where(
			&model.Setting{
				Scope: scope,
				Key:   key,
			},
		).
		Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw, nil
}

// List returns all entries of a scope, ordered by key.
func (s *SettingsStorage) List(scope string) ([]model.Setting, error) {
	var settings []model.Setting
	err := s.db.Where(&model.Setting{Scope: scope}, "Scope").
		Order("key").
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Set upserts the JSON value for a (scope, key).
func (s *SettingsStorage) Set(scope, key string, value datatypes.JSON) error {
	setting := model.Setting{
		Scope: scope,
		Key:   key,
		Value: value,
	}
	return s.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{
				{Name: "scope"},
				{Name: "key"},
			},
			DoUpdates: clause.AssignmentColumns(
				[]string{
					"value",
					"updated_at",
				},
			),
		},
	).Create(&setting).Error
}

// Delete removes a (scope, key) pair. No error if it's missing.
func (s *SettingsStorage) Delete(scope, key string) error {
	return s.db.Where(
		&model.Setting{
			Scope: scope,
			Key:   key,
		},
	).Delete(&model.Setting{}).Error
}

// GetAs retrieves and unmarshals the value for (scope, key) into out.
// out must be a pointer to the target type. Returns (false, nil) if not found.
func (s *SettingsStorage) GetAs(scope, key string, out any) (bool, error) {
	raw, err := s.Get(scope, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetAny marshals v to JSON and stores it at (scope, key).
func (s *SettingsStorage) SetAny(scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(scope, key, datatypes.JSON(b))
}
