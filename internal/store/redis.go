package store

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"hookgate/internal/model"
)

const (
	redisKeyPrefix = "hookgate:delivery:"
	redisRecentKey = "hookgate:recent"
	recentCap      = 200
)

// Redis is a ledger with per-entry TTL, selected when REDIS_URL is set and
// no database is configured. Entries expire after ttl, which bounds memory
// while covering the provider's redelivery window.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func (r *Redis) Seen(ctx context.Context, deliveryID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, redisKeyPrefix+deliveryID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Mark(ctx context.Context, deliveryID, eventType string) error {
	entry := model.ProcessedDelivery{
		DeliveryID:  deliveryID,
		EventType:   eventType,
		ProcessedAt: time.Now().UTC(),
	}
	set, err := r.rdb.SetNX(ctx, redisKeyPrefix+deliveryID, eventType, r.ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		// Already marked by a concurrent delivery.
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := r.rdb.Pipeline()
	pipe.LPush(ctx, redisRecentKey, data)
	pipe.LTrim(ctx, redisRecentKey, 0, recentCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Recent(ctx context.Context, limit int) ([]model.ProcessedDelivery, error) {
	if limit <= 0 || limit > recentCap {
		limit = recentCap
	}
	items, err := r.rdb.LRange(ctx, redisRecentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.ProcessedDelivery, 0, len(items))
	for _, it := range items {
		var d model.ProcessedDelivery
		if err := json.Unmarshal([]byte(it), &d); err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }
