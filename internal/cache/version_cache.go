// Package cache keeps short-lived version lists in Redis and broadcasts version changes.
// Every Redis call goes through a circuit breaker; callers treat errors as cache misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// generationTTL bounds the life of idle generation counters. A counter that expires
// only makes in-flight writers miss, never accept a stale list.
const generationTTL = 24 * time.Hour

// setIfGeneration writes the list only while the generation still matches the one
// the writer read before loading from the database.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// VersionCache is a Redis-backed cache of version lists keyed by (tenant, agent).
type VersionCache struct {
	rdb redis.Cmdable
	cb  *gobreaker.CircuitBreaker
	ttl time.Duration
}

// NewVersionCache creates a VersionCache whose entries expire after ttl.
func NewVersionCache(rdb redis.Cmdable, ttl time.Duration) *VersionCache {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-version-cache",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
	})

	return &VersionCache{rdb: rdb, cb: cb, ttl: ttl}
}

// GetList returns the cached list. ok is false on a miss.
func (c *VersionCache) GetList(ctx context.Context, tenantID string, agentID int64) (versions []*domain.AgentVersion, ok bool, err error) {
	raw, err := c.cb.Execute(func() (interface{}, error) {
		return c.rdb.Get(ctx, VersionListKey(tenantID, agentID)).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get version list: %w", err)
	}

	if err := json.Unmarshal(raw.([]byte), &versions); err != nil {
		return nil, false, fmt.Errorf("decode version list: %w", err)
	}
	return versions, true, nil
}

// Generation returns the invalidation counter of an agent's list. Read it before
// loading the list from the database and pass it to SetList.
func (c *VersionCache) Generation(ctx context.Context, tenantID string, agentID int64) (int64, error) {
	raw, err := c.cb.Execute(func() (interface{}, error) {
		return c.rdb.Get(ctx, VersionGenerationKey(tenantID, agentID)).Int64()
	})
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version list generation: %w", err)
	}
	return raw.(int64), nil
}

// SetList stores the full list of an agent unless it was invalidated after gen was read.
// stored is false when the write was skipped.
func (c *VersionCache) SetList(
	ctx context.Context,
	tenantID string,
	agentID int64,
	gen int64,
	versions []*domain.AgentVersion,
) (stored bool, err error) {
	payload, err := json.Marshal(versions)
	if err != nil {
		return false, fmt.Errorf("encode version list: %w", err)
	}

	keys := []string{VersionGenerationKey(tenantID, agentID), VersionListKey(tenantID, agentID)}
	raw, err := c.cb.Execute(func() (interface{}, error) {
		return setIfGeneration.Run(ctx, c.rdb, keys,
			strconv.FormatInt(gen, 10), payload, c.ttl.Milliseconds()).Int64()
	})
	if err != nil {
		return false, fmt.Errorf("set version list: %w", err)
	}
	return raw.(int64) == 1, nil
}

// Invalidate drops the cached list of one agent and bumps its generation so that
// readers which loaded the list before the change cannot store it.
func (c *VersionCache) Invalidate(ctx context.Context, tenantID string, agentID int64) error {
	genKey := VersionGenerationKey(tenantID, agentID)
	_, err := c.cb.Execute(func() (interface{}, error) {
		return c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, generationTTL)
			pipe.Del(ctx, VersionListKey(tenantID, agentID))
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("invalidate version list: %w", err)
	}
	return nil
}
