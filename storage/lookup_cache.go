package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	lookupKeyAgents     = "tokendesk:lookup:agents"
	lookupKeyExecutives = "tokendesk:lookup:executives"
)

// LookupCache caches the distinct agent/executive name lists in Redis.
// A nil *LookupCache is valid and disables caching entirely; cache errors
// never surface to callers, the lists are simply re-read from the database.
type LookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLookupCache creates a LookupCache using the passed redis options.
func NewLookupCache(opts *redis.Options, ttl time.Duration) *LookupCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LookupCache{client: redis.NewClient(opts), ttl: ttl}
}

// Get returns the cached list for key, if present.
func (c *LookupCache) Get(key string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Debug("lookup cache read failed")
		}
		return nil, false
	}
	var names []string
	if err = json.Unmarshal(raw, &names); err != nil {
		return nil, false
	}
	return names, true
}

// Set stores the list for key with the configured TTL.
func (c *LookupCache) Set(key string, names []string) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.WithError(err).Debug("lookup cache write failed")
	}
}

// Invalidate drops the passed keys.
func (c *LookupCache) Invalidate(keys ...string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Debug("lookup cache invalidation failed")
	}
}
