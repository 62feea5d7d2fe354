package window

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/ratelimit/models"
	"storefront/pkg/requestcontext"
)

// RedisWindowStore implements WindowStore on a redis sorted set per key,
// scored by admission time in nanoseconds. Use it when multiple storefront
// replicas must share one upstream quota.
type RedisWindowStore struct {
	rdb    redis.Cmdable
	prefix string
}

// NewRedisWindowStore creates a redis-backed window store.
func NewRedisWindowStore(rdb redis.Cmdable) *RedisWindowStore {
	return &RedisWindowStore{rdb: rdb, prefix: "ratelimit:window"}
}

// Allow trims expired members, provisionally adds this admission and checks
// the cardinality inside one MULTI/EXEC transaction. When over quota the
// provisional member is removed again and the retry delay is computed from
// the oldest surviving member.
func (s *RedisWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.AdmitResult, error) {
	now := requestcontext.Now(ctx)
	k := s.prefix + ":" + key
	member := uuid.NewString()
	cutoff := now.Add(-window).UnixNano()

	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	count := int(countCmd.Val())
	if count <= limit {
		return &models.AdmitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - count,
			ResetAt:   now.Add(window),
		}, nil
	}

	// Over quota: withdraw the provisional admission.
	if err := s.rdb.ZRem(ctx, k, member).Err(); err != nil {
		return nil, err
	}

	retryAfter := int(math.Ceil(window.Seconds()))
	resetAt := now.Add(window)
	oldest, err := s.rdb.ZRangeWithScores(ctx, k, 0, 0).Result()
	if err == nil && len(oldest) > 0 {
		oldestAt := time.Unix(0, int64(oldest[0].Score))
		wait := window - now.Sub(oldestAt)
		retryAfter = int(math.Ceil(wait.Seconds()))
		resetAt = oldestAt.Add(window)
	}

	return &models.AdmitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}, nil
}

// Reset clears the window for a key.
func (s *RedisWindowStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+":"+key).Err()
}
