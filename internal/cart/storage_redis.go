package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart:"

// RedisStorage keeps one JSON value per owner in redis. Carts have no TTL.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage wraps an existing redis client. prefix namespaces the keys,
// matching the cache layer convention.
func NewRedisStorage(client *redis.Client, prefix string) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("cart redis storage: nil client")
	}
	return &RedisStorage{client: client, prefix: prefix}, nil
}

// Load reads the owner's cart key.
func (s *RedisStorage) Load(ctx context.Context, owner string) ([]Line, bool, error) {
	val, err := s.client.Get(ctx, s.key(owner)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var lines []Line
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, true, nil
	}
	return lines, true, nil
}

// Save replaces the owner's cart key.
func (s *RedisStorage) Save(ctx context.Context, owner string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(owner), payload, 0).Err()
}

// Delete removes the owner's cart key.
func (s *RedisStorage) Delete(ctx context.Context, owner string) error {
	return s.client.Del(ctx, s.key(owner)).Err()
}

// Owners scans for every stored cart key.
func (s *RedisStorage) Owners(ctx context.Context) ([]string, error) {
	pattern := s.key("*")
	stripLen := len(s.key(""))
	var owners []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if len(key) > stripLen {
			owners = append(owners, key[stripLen:])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}

func (s *RedisStorage) key(owner string) string {
	if s.prefix == "" {
		return redisKeyPrefix + owner
	}
	return s.prefix + ":" + redisKeyPrefix + owner
}
