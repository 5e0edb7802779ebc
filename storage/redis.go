package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the snapshot as a single string value.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(ctx context.Context, addr string, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]model.Block, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return decodeChain(data)
}

func (s *RedisStore) Save(ctx context.Context, chain []model.Block) error {
	data, err := encodeChain(chain)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
