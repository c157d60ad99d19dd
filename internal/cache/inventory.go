package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	TrendingKeyPrefix = "trending:%s:%d"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	TrendingTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// TrendingKey keys a trending ranking by signal ("posts" or "engagement") and limit.
func TrendingKey(signal string, limit int) string {
	return fmt.Sprintf(TrendingKeyPrefix, signal, limit)
}

// Aside implements the cache-aside pattern: on hit, dest is filled from the
// cached JSON; on miss, fill runs and its result (written into dest by the
// caller's closure) is cached with the given TTL. Cache failures degrade to
// the fill path silently.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to fill.
			client.Del(ctx, key)
		} else if err != redis.Nil {
			// Redis unavailable; serve from source.
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateTrending clears every cached trending ranking. Called after
// writes that can shift the rankings (post create/delete, new engagement).
func InvalidateTrending(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "trending:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
