package blacklist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const foreverValue = "forever"

const minEntryTTL = time.Second

// RedisStore keeps blacklist entries in Redis under a configurable key
// prefix. Entry values are the unix second at which the grace window closes,
// or a forever marker; the key TTL tracks the token's own expiry so dead
// entries age out on their own.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore builds a store on client. prefix namespaces the keys;
// "jwt:bl" is used when empty.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "jwt:bl"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(jti string) string {
	return s.prefix + ":" + jti
}

// Add implements Blacklist.
func (s *RedisStore) Add(ctx context.Context, jti string, graceUntil, expiresAt time.Time) error {
	// Retain until the later of token expiry and grace close; after both the
	// token is dead regardless of the blacklist.
	retainUntil := expiresAt
	if graceUntil.After(retainUntil) {
		retainUntil = graceUntil
	}
	ttl := time.Until(retainUntil)
	if ttl < minEntryTTL {
		ttl = minEntryTTL
	}

	value := strconv.FormatInt(graceUntil.Unix(), 10)
	if err := s.client.Set(ctx, s.key(jti), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// AddForever implements Blacklist.
func (s *RedisStore) AddForever(ctx context.Context, jti string) error {
	if err := s.client.Set(ctx, s.key(jti), foreverValue, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Has implements Blacklist.
func (s *RedisStore) Has(ctx context.Context, jti string) (bool, error) {
	value, err := s.client.Get(ctx, s.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if value == foreverValue {
		return true, nil
	}

	graceUntil, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Corrupt entry: fail closed.
		return true, nil
	}
	return time.Now().Unix() >= graceUntil, nil
}

// Remove implements Blacklist.
func (s *RedisStore) Remove(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear implements Blacklist. It scans the store's key prefix, so it is meant
// for tests and operational resets, not hot paths.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
