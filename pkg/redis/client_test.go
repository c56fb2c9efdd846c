package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClient(t *testing.T) {
	client, err := NewClient(&config.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, client.Enabled())
	assert.ErrorIs(t, client.Ping(ctx), ErrDisabled)

	ok, err := client.SetNX(ctx, "k", "v", time.Minute)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrDisabled)

	assert.NoError(t, client.Close())
	assert.Equal(t, false, client.PoolStats()["enabled"])
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	assert.ErrorIs(t, client.Ping(context.Background()), ErrDisabled)
	assert.NoError(t, client.Close())
}
