package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var c Catalog = Noop{}
	require.NoError(t, c.SetProperties(context.Background(), []models.Property{{ID: "t15-201"}}))
	_, err := c.GetProperties(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestNewRedisClientParsesURLAndAddr(t *testing.T) {
	cli, err := NewRedisClient("redis://:secret@cache.internal:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", cli.Options().Addr)
	assert.Equal(t, 2, cli.Options().DB)
	assert.Equal(t, "secret", cli.Options().Password)

	cli, err = NewRedisClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cli.Options().Addr)

	_, err = NewRedisClient("redis://%zz")
	assert.Error(t, err)
}

func TestRedisCatalogUnreachableIsErrorNotMiss(t *testing.T) {
	cli := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer cli.Close()

	c := NewRedisCatalog(cli, time.Minute)
	_, err := c.GetProperties(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
