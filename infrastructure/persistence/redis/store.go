// Package redis stores cart and order history in Redis, for deployments where
// several service instances share one table's state.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scanorder/infrastructure/persistence"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type Store struct {
	client *redis.Client
	prefix string
}

func New(cfg Config) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.KeyPrefix)
}

// NewWithClient wraps an existing client, which the store then owns
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", persistence.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: get %q: %w", key, mapErr(err))
	}
	return value, nil
}

// Set writes without expiry; a cart lives until it is cleared or ordered
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, mapErr(err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete %q: %w", key, mapErr(err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return mapErr(s.client.Ping(ctx).Err())
}

func (s *Store) Close() error {
	return s.client.Close()
}

// mapErr turns a maxmemory rejection into ErrQuotaExceeded
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return persistence.ErrStoreClosed
	}
	var redisErr redis.Error
	if errors.As(err, &redisErr) && strings.HasPrefix(redisErr.Error(), "OOM") {
		return fmt.Errorf("%w: %v", persistence.ErrQuotaExceeded, err)
	}
	return err
}

var _ persistence.Store = (*Store)(nil)
