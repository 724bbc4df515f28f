package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyBlacklist = "blacklist:"

// RedisBlacklist keeps one expiring key per revoked token. Keys hold the
// SHA-256 of the token rather than the token itself.
type RedisBlacklist struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisBlacklist(client *redis.Client, retention time.Duration) *RedisBlacklist {
	return &RedisBlacklist{client: client, retention: retention}
}

// NewRedisClient parses url and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", opts.Addr)
	return client, nil
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyBlacklist + hex.EncodeToString(sum[:])
}

// Add keeps the first recorded retention window on repeated adds.
func (b *RedisBlacklist) Add(ctx context.Context, token string) error {
	if err := b.client.SetNX(ctx, blacklistKey(token), 1, b.retention).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Health(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}
