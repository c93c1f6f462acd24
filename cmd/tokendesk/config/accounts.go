package config

import (
	"github.com/pkg/errors"

	"github.com/tokendesk/tokendesk/storage"
	"github.com/tokendesk/tokendesk/storage/model"
)

// accountsConf configures credential hashing and the bootstrap seed set.
type accountsConf struct {
	PasswordHashing storage.Argon2idParams `yaml:"password_hashing"`
	Seed            []storage.SeedAccount  `yaml:"seed"`
}

func (c *accountsConf) validate() error {
	for _, seed := range c.Seed {
		if seed.Username == "" || seed.Password == "" {
			return errors.New("error in accounts conf: seed entries need username and password")
		}
		if !model.ValidRole(seed.Role) {
			return errors.Errorf("error in accounts conf: invalid seed role '%s'", seed.Role)
		}
	}
	return nil
}

var defaultAccountsConf = accountsConf{
	PasswordHashing: storage.Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      64,
		SaltLen:     32,
	},
	Seed: storage.DefaultSeedAccounts(),
}
