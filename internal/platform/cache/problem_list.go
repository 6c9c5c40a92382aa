package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"vortex_api/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// ProblemListCache holds the owner-or-moderator view of a user's problem
// dashboard. Any mutation of an owner's problems must invalidate that
// owner's entry.
type ProblemListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProblemListCache(rdb *redis.Client, ttl time.Duration) *ProblemListCache {
	return &ProblemListCache{rdb: rdb, ttl: ttl}
}

func ownerKey(ownerID string) string {
	return "problems:owner:" + ownerID
}

// Get returns the cached listing for an owner, or ok=false on a miss.
// Cache failures degrade to a miss; the database stays authoritative.
func (c *ProblemListCache) Get(ctx context.Context, ownerID string) ([]model.Problem, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, ownerKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var problems []model.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, false
	}
	return problems, true
}

func (c *ProblemListCache) Set(ctx context.Context, ownerID string, problems []model.Problem) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(problems)
	if err != nil {
		return fmt.Errorf("ProblemListCache.Set marshal: %w", err)
	}
	return c.rdb.Set(ctx, ownerKey(ownerID), data, c.ttl).Err()
}

func (c *ProblemListCache) Invalidate(ctx context.Context, ownerID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, ownerKey(ownerID)).Err()
}
