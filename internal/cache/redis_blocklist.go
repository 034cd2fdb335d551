package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hisaab/internal/config"
)

const defaultKeyPrefix = "hisaab:revoked:"

// RedisBlocklist implements TokenBlocklist with one key per revoked token,
// expiring together with the token.
type RedisBlocklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBlocklist connects to Redis and verifies the connection.
func NewRedisBlocklist(cfg config.RedisConfig) (*RedisBlocklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisBlocklistWithClient(client, ""), nil
}

// NewRedisBlocklistWithClient wraps an existing client.
func NewRedisBlocklistWithClient(client *redis.Client, keyPrefix string) *RedisBlocklist {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisBlocklist{client: client, keyPrefix: keyPrefix}
}

// Revoke stores the token ID with a TTL matching the token's remaining lifetime.
func (b *RedisBlocklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks for the token ID's key.
func (b *RedisBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client.
func (b *RedisBlocklist) Close() error {
	return b.client.Close()
}

var _ TokenBlocklist = (*RedisBlocklist)(nil)
