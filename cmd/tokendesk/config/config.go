// Package config loads and validates the tokendesk server configuration.
package config

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/tokendesk/tokendesk"
)

// Config holds the full server configuration.
type Config struct {
	Server   tokendesk.ServerConf `yaml:"server"`
	Storage  storageConf          `yaml:"storage"`
	Logging  loggingConf          `yaml:"logging"`
	Accounts accountsConf         `yaml:"accounts"`
	Caching  cachingConf          `yaml:"caching"`
}

var conf *Config

// Get returns the loaded Config
func Get() *Config {
	return conf
}

var possibleConfigLocations = []string{
	"config.yaml",
	"/etc/tokendesk/config.yaml",
}

// Load loads the configuration from the passed file; if file is empty the
// well-known locations are tried in order.
func Load(file string) {
	conf = &Config{
		Server:   defaultServerConf,
		Storage:  defaultStorageConf,
		Logging:  defaultLoggingConf,
		Accounts: defaultAccountsConf,
		Caching:  defaultCachingConf,
	}
	content := mustReadConfigFile(file)
	if err := yaml.Unmarshal(content, conf); err != nil {
		log.WithError(err).Fatal("could not parse config file")
	}
	if err := conf.Storage.validate(); err != nil {
		log.WithError(err).Fatal("invalid storage config")
	}
	if err := conf.Logging.validate(); err != nil {
		log.WithError(err).Fatal("invalid logging config")
	}
	if err := conf.Accounts.validate(); err != nil {
		log.WithError(err).Fatal("invalid accounts config")
	}
}

func mustReadConfigFile(file string) []byte {
	candidates := possibleConfigLocations
	if file != "" {
		candidates = []string{file}
	}
	for _, candidate := range candidates {
		if !fileutils.FileExists(candidate) {
			continue
		}
		content, err := os.ReadFile(candidate)
		if err != nil {
			log.WithError(err).Fatal("could not read config file")
		}
		return content
	}
	log.WithField("candidates", candidates).Fatal("no config file found")
	return nil
}

var defaultServerConf = tokendesk.ServerConf{
	Port: 8080,
}
