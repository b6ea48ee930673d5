package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed store for deployments where several feed
// runners share one translation cache. Entries are stored as JSON values
// under a key prefix, without expiry, and written with SETNX so the first
// writer wins.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "pulsetrans:")
}

const defaultKeyPrefix = "pulsetrans:"

// NewRedisStore creates a new Redis store with the given configuration.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &RedisStore{
		client:    client,
		keyPrefix: prefix,
	}, nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves an entry from Redis.
func (s *RedisStore) Get(fingerprint string) (Entry, bool) {
	ctx := context.Background()
	val, err := s.client.Get(ctx, s.keyPrefix+fingerprint).Result()
	if err != nil {
		// redis.Nil and transport errors both read as a cache miss.
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return Entry{}, false
	}
	entry.Fingerprint = fingerprint
	return entry, true
}

// Put stores an entry in Redis. First write wins via SETNX.
func (s *RedisStore) Put(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return s.client.SetNX(ctx, s.keyPrefix+entry.Fingerprint, data, 0).Err()
}

// Len counts entries under the key prefix by scanning. Linear in cache size;
// intended for stats reporting, not hot paths.
func (s *RedisStore) Len() int {
	ctx := context.Background()

	var count int
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.keyPrefix+"*", 100).Result()
		if err != nil {
			return count
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	ctx := context.Background()
	return s.client.Ping(ctx).Err()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
