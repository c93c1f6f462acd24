package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tokendesk/tokendesk/storage"
)

type storageConf struct {
	Driver  storage.DriverType `yaml:"driver"`
	DataDir string             `yaml:"data_dir"`
	DSN     string             `yaml:"dsn"`
	storage.DSNConf
	Debug bool `yaml:"debug"`
}

func (c *storageConf) validate() error {
	if c.Driver == storage.DriverSQLite {
		if c.DataDir == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	Driver: storage.DriverSQLite,
	DataDir: "data",
	DSNConf: storage.DSNConf{
		User: "tokendesk",
		Host: "localhost",
		DB:   "tokendesk",
	},
	Debug: false,
}

// LoadStorage initializes the gorm warehouse for the passed storage conf.
// The lookups cache may be nil.
func LoadStorage(c storageConf, hash storage.Argon2idParams, lookups *storage.LookupCache) (*storage.Storage, error) {
	cfg := storage.Config{
		Driver:       c.Driver,
		DSN:          c.DSN,
		DataDir:      c.DataDir,
		Debug:        c.Debug,
		PasswordHash: hash,
	}
	warehouse, err := storage.NewStorage(cfg, lookups)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded storage backend")
	return warehouse, nil
}
