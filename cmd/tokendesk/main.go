package main

import (
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/tokendesk/tokendesk"
	"github.com/tokendesk/tokendesk/cmd/tokendesk/config"
	"github.com/tokendesk/tokendesk/internal/logger"
	"github.com/tokendesk/tokendesk/internal/version"
	"github.com/tokendesk/tokendesk/storage"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	c := config.Get()
	logger.Init(
		logger.Conf{
			Dir:    c.Logging.Internal.Dir,
			StdErr: c.Logging.Internal.StdErr,
			Level:  c.Logging.Internal.Level,
		},
	)
	log.Info("Loaded Config")
	log.WithField("version", version.VERSION).Info("Starting tokendesk")

	var lookups *storage.LookupCache
	if redisAddr := c.Caching.RedisAddr; redisAddr != "" && !c.Caching.Disabled {
		lookups = storage.NewLookupCache(
			&redis.Options{
				Addr:     redisAddr,
				Username: c.Caching.Username,
				Password: c.Caching.Password,
				DB:       c.Caching.RedisDB,
			},
			c.Caching.MaxLifetime.Duration(),
		)
		log.Info("Loaded Redis lookup cache")
	}

	warehouse, err := config.LoadStorage(c.Storage, c.Accounts.PasswordHashing, lookups)
	if err != nil {
		log.Fatal(err)
	}
	if err = warehouse.SeedAccounts(c.Accounts.Seed); err != nil {
		log.WithError(err).Fatal("could not seed accounts")
	}

	td := tokendesk.NewTokenDesk(c.Server, warehouse.Backends())
	log.Info("Initialized server")
	td.Start()
}
