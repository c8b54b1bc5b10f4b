package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps each user's slots in a hash "session:<user_id>". The
// whole hash expires ttl after the last write.
type RedisStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedisClient connects to addr and pings it
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedisStore creates a store on an existing client. A ttl of zero keeps
// sessions until they are deleted.
func NewRedisStore(rdb goredis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the slot value and whether it was set
func (s *RedisStore) Get(ctx context.Context, userID int64, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, redisKey(userID), key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores a slot value and refreshes the expiry
func (s *RedisStore) Set(ctx context.Context, userID int64, key, value string) error {
	k := redisKey(userID)

	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

// Delete clears a slot
func (s *RedisStore) Delete(ctx context.Context, userID int64, key string) error {
	if err := s.rdb.HDel(ctx, redisKey(userID), key).Err(); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	return nil
}
