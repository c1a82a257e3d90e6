package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix   = "report"
	globalVersionKey  = reportKeyPrefix + ":version:global"
	userVersionFormat = reportKeyPrefix + ":version:user:%d"
)

var _ service.ReportCache = (*RedisReportCache)(nil)

// RedisReportCache caches monthly reports in Redis. Invalidation bumps a
// version counter that is part of every report key, so stale entries are
// never read again and simply expire. Writes go to the key handed out by
// GetMonthly, never to one derived from the current version.
type RedisReportCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{redis: client, ttl: ttl}
}

func (c *RedisReportCache) GetMonthly(ctx context.Context, userID uint, year, month int) (*service.MonthlyReport, service.ReportKey, error) {
	key, err := c.monthlyKey(ctx, userID, year, month)
	if err != nil {
		return nil, "", err
	}
	data, err := c.redis.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, nil
	}
	if err != nil {
		return nil, key, fmt.Errorf("failed to read cached report: %w", err)
	}
	var report service.MonthlyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, key, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, key, nil
}

func (c *RedisReportCache) SetMonthly(ctx context.Context, key service.ReportKey, report *service.MonthlyReport) error {
	if key == "" {
		return errors.New("empty report cache key")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return c.redis.Set(ctx, string(key), data, c.ttl).Err()
}

func (c *RedisReportCache) InvalidateUser(ctx context.Context, userID uint) error {
	return c.redis.Incr(ctx, fmt.Sprintf(userVersionFormat, userID)).Err()
}

func (c *RedisReportCache) InvalidateAll(ctx context.Context) error {
	return c.redis.Incr(ctx, globalVersionKey).Err()
}

func (c *RedisReportCache) monthlyKey(ctx context.Context, userID uint, year, month int) (service.ReportKey, error) {
	vals, err := c.redis.MGet(ctx, globalVersionKey, fmt.Sprintf(userVersionFormat, userID)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read report cache version: %w", err)
	}
	return service.ReportKey(fmt.Sprintf("%s:monthly:%d:%04d-%02d:g%s:u%s",
		reportKeyPrefix, userID, year, month, version(vals[0]), version(vals[1]))), nil
}

func version(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}
