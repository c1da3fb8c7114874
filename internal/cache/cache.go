// Package cache holds the optional Redis-backed extraction cache.
//
// The stores API is the slowest extract (one request per store), so
// fetched records are cached by store number. An interrupted run
// picks up where it left off instead of refetching every store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/config"
	"github.com/datacentral/retail-etl/internal/extract"
)

// keyPrefix namespaces cache entries in a shared Redis.
const keyPrefix = "retailetl:stores:"

// Stores caches store records fetched from the API. It implements
// extract.StoreCache.
type Stores struct {
	client *redis.Client
	ttl    time.Duration
	log    *zerolog.Logger
}

// NewStores connects the cache.
//
// Redis being down is not fatal: the pipeline runs without a cache,
// so this returns (nil, nil) after logging when the ping fails.
func NewStores(ctx context.Context, cfg *config.RedisConfig, logger *zerolog.Logger) (*Stores, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without store cache")
		client.Close()
		return nil, nil
	}

	return &Stores{
		client: client,
		ttl:    time.Duration(cfg.TTLHours) * time.Hour,
		log:    logger,
	}, nil
}

// Get looks up a cached store record. Any cache problem is a miss.
func (s *Stores) Get(ctx context.Context, storeNumber int) (*extract.StoreRecord, bool) {
	payload, err := s.client.Get(ctx, key(storeNumber)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Debug().Err(err).Int("store_number", storeNumber).Msg("store cache read failed")
		}
		return nil, false
	}

	record := &extract.StoreRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		s.log.Debug().Err(err).Int("store_number", storeNumber).Msg("store cache entry corrupt")
		return nil, false
	}

	return record, true
}

// Put caches a freshly fetched store record. Failures are logged
// and otherwise ignored; the cache is best effort.
func (s *Stores) Put(ctx context.Context, storeNumber int, record *extract.StoreRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.log.Warn().Err(err).Int("store_number", storeNumber).Msg("store cache encode failed")
		return
	}

	if err := s.client.Set(ctx, key(storeNumber), payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Int("store_number", storeNumber).Msg("store cache write failed")
	}
}

// Close releases the Redis connection.
func (s *Stores) Close() error {
	return s.client.Close()
}

func key(storeNumber int) string {
	return fmt.Sprintf("%s%d", keyPrefix, storeNumber)
}
