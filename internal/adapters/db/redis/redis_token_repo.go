package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessPrefix = "revoked:access:"

type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

// RevokeAccess denylists an access token id until the token would expire anyway.
func (r *RedisTokenRepo) RevokeAccess(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil // already unusable
	}
	return r.client.Set(ctx, accessPrefix+jti, 1, ttl).Err()
}

func (r *RedisTokenRepo) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, accessPrefix+jti).Result()
	if err != nil {
		return true, err // fail closed
	}
	return n > 0, nil
}
