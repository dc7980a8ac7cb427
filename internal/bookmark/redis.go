package bookmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each namespace in a sorted set scored by a per namespace
// sequence, so listing preserves insertion order.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL. A value that does not parse as a URL is
// used as a plain host:port address.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// toggleScript removes the member, or appends it at the next sequence
// position when it was absent. Returns 1 when the member is now present.
var toggleScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 1 then
	return 0
end
local pos = redis.call('INCR', KEYS[2])
redis.call('ZADD', KEYS[1], 'NX', pos, ARGV[1])
return 1
`)

func seqKey(namespace string) string {
	return namespace + ":seq"
}

func (rs *RedisStore) List(ctx context.Context, namespace string) ([]string, error) {
	ids, err := rs.client.ZRange(ctx, namespace, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return ids, nil
}

func (rs *RedisStore) Add(ctx context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}

	pos, err := rs.client.Incr(ctx, seqKey(namespace)).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate bookmark position: %w", err)
	}

	if err := rs.client.ZAddNX(ctx, namespace, redis.Z{Score: float64(pos), Member: id}).Err(); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

func (rs *RedisStore) Remove(ctx context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}
	if err := rs.client.ZRem(ctx, namespace, id).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

func (rs *RedisStore) Contains(ctx context.Context, namespace, id string) (bool, error) {
	err := rs.client.ZScore(ctx, namespace, id).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return true, nil
}

func (rs *RedisStore) Toggle(ctx context.Context, namespace, id string) (bool, error) {
	if err := validate(namespace, id); err != nil {
		return false, err
	}

	n, err := toggleScript.Run(ctx, rs.client, []string{namespace, seqKey(namespace)}, id).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	return n == 1, nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
