package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlobStore keeps session snapshots in Redis, one string key per client.
// Every Set refreshes the TTL so idle sessions expire on their own.
type BlobStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBlobStore(client *redis.Client, ttl time.Duration) *BlobStore {
	return &BlobStore{client: client, ttl: ttl}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set replaces the whole snapshot; a single SET is atomic in Redis.
func (s *BlobStore) Set(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *BlobStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
