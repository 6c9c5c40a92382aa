package cache

import (
	"context"
	"testing"
	"time"
	"vortex_api/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestOwnerKey(t *testing.T) {
	assert.Equal(t, "problems:owner:u-1", ownerKey("u-1"))
}

// Without a reachable Redis the cache degrades to a permanent miss: Get
// reports not-found and writes are silent no-ops, so the database stays
// authoritative and no caller has to special-case a missing cache.
func TestProblemListCache_DegradesWithoutClient(t *testing.T) {
	ctx := context.Background()
	problems := []model.Problem{{ID: 1, AuthorID: "u-1", Title: "Two Sum"}}

	for name, c := range map[string]*ProblemListCache{
		"nil cache":  nil,
		"nil client": NewProblemListCache(nil, time.Minute),
	} {
		assert.NoError(t, c.Set(ctx, "u-1", problems), name)

		got, ok := c.Get(ctx, "u-1")
		assert.False(t, ok, name)
		assert.Nil(t, got, name)

		assert.NoError(t, c.Invalidate(ctx, "u-1"), name)
	}
}
