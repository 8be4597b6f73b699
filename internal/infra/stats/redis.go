package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cdk-distributor/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

// RedisClaimStats keeps per-pool claim counters in Redis hashes:
//
//	<prefix>:pool:<id>                 outcome -> attempts, "codes" -> issued
//	<prefix>:pool:<id>:minute:<bucket> same fields, expiring after ttl
//	<prefix>:total                     outcome -> attempts across pools
type RedisClaimStats struct {
	rdb redis.Cmdable

	prefix string
	// ttl only applies to minute buckets; pool and total hashes are cumulative.
	ttl time.Duration

	bucket string // "minute" (default) or "none"
}

type RedisStatsOption func(*RedisClaimStats)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisClaimStats) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisClaimStats) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisClaimStats) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisClaimStats(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisClaimStats {
	s := &RedisClaimStats{
		rdb:    rdb,
		prefix: "cdk:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisClaimStats) PoolKey(poolID string) string {
	return s.prefix + ":pool:" + poolID
}

func (s *RedisClaimStats) RecordClaim(ctx context.Context, ev shared.ClaimEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)
	poolKey := s.PoolKey(string(ev.PoolID))

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)
	pipe.HIncrBy(ctx, poolKey, field, 1)
	if ev.Granted > 0 {
		pipe.HIncrBy(ctx, poolKey, "codes", int64(ev.Granted))
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", poolKey, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if ev.Granted > 0 {
			pipe.HIncrBy(ctx, bucketKey, "codes", int64(ev.Granted))
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
