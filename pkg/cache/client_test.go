package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Client = (*RedisClient)(nil)

func TestDisabledClient(t *testing.T) {
	client, err := NewRedisClient("", "", 0)
	require.NoError(t, err)

	ctx := context.Background()

	assert.False(t, client.Enabled())

	// Writes and deletes are silent no-ops.
	assert.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, client.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, client.Delete(ctx, "k"))
	assert.NoError(t, client.DeleteByPrefix(ctx, "k"))
	assert.NoError(t, client.Close())

	// Reads report a miss rather than succeeding.
	_, err = client.Get(ctx, "k")
	assert.Error(t, err)

	var dest map[string]int
	hit, err := client.GetJSON(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
}
