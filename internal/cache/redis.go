package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session expired or never existed.
var ErrSessionNotFound = errors.New("session not found")

// RedisCache keeps booking flow snapshots per session and guards submissions.
type RedisCache struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, sessionTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
	}
}

func (c *RedisCache) LoadSession(ctx context.Context, id string) (*flow.Snapshot, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var snap flow.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &snap, nil
}

// SaveSession stores the snapshot and refreshes its TTL.
func (c *RedisCache) SaveSession(ctx context.Context, id string, snap flow.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(id), payload, c.sessionTTL).Err()
}

func (c *RedisCache) DeleteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

func (c *RedisCache) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(id), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, id string) error {
	return c.client.Del(ctx, submitLockKey(id)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func sessionKey(id string) string {
	return "booking:session:" + id
}

func submitLockKey(id string) string {
	return fmt.Sprintf("lock:booking:session:%s:submit", id)
}
