// Package cache is an optional redis cache for the cart summary panel, which
// the storefront header fetches on every page.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferremix/storefront/internal/service"
)

const summaryTTL = 60 * time.Second

type SummaryCache interface {
	Get(ctx context.Context, userID string) (*service.Summary, bool)
	Set(ctx context.Context, userID string, sum *service.Summary)
	Invalidate(ctx context.Context, userID string)
}

type Redis struct {
	client *redis.Client
}

func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

func summaryKey(userID string) string { return "cart_summary:" + userID }

func (r *Redis) Get(ctx context.Context, userID string) (*service.Summary, bool) {
	raw, err := r.client.Get(ctx, summaryKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var sum service.Summary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return nil, false
	}
	return &sum, true
}

func (r *Redis) Set(ctx context.Context, userID string, sum *service.Summary) {
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	r.client.Set(ctx, summaryKey(userID), raw, summaryTTL)
}

func (r *Redis) Invalidate(ctx context.Context, userID string) {
	r.client.Del(ctx, summaryKey(userID))
}

func (r *Redis) Close() error { return r.client.Close() }

// Nop is used when REDIS_ADDR is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*service.Summary, bool) { return nil, false }
func (Nop) Set(context.Context, string, *service.Summary)        {}
func (Nop) Invalidate(context.Context, string)                   {}
