package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/scamjob-detector/internal/detector"
)

// keyPrefix namespaces prediction entries in the shared keyspace.
const keyPrefix = "prediction:"

// RedisStore is a Store backed by Redis, for deployments with more than one
// instance behind a load balancer. Entries expire via Redis TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore parses redisURL, verifies connectivity, and returns a store.
// A non-positive ttl falls back to DefaultTTL.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Put overwrites the cached prediction for the session.
func (s *RedisStore) Put(ctx context.Context, sessionID string, result *detector.PredictionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store prediction: %w", err)
	}
	return nil
}

// Get returns the cached prediction or a NoPredictionError.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*detector.PredictionResult, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NoPredictionError{SessionID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction: %w", err)
	}

	var result detector.PredictionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &result, nil
}

// Clear drops the cached prediction for the session.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear prediction: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
