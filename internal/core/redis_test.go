// AngelaMos | 2026
// redis_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/yamdb/internal/config"
)

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:          "redis://:secret@cache:6380/2",
		PoolSize:     20,
		MinIdleConns: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
}

func TestRedisOptions_BadURL(t *testing.T) {
	_, err := redisOptions(config.RedisConfig{URL: "http://cache:6379"})
	require.Error(t, err)
}
