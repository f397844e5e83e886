package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/redis"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/retry"
)

func fastRetry(attempts int, retryable func(error) bool) *retry.Config {
	return &retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
		IsRetryable:  retryable,
	}
}

func TestNewClient_EmptyAddress(t *testing.T) {
	t.Parallel()

	client, err := redis.NewClient(context.Background(), redis.Config{}, logger.NewNop())

	require.ErrorIs(t, err, redis.ErrEmptyAddress)
	assert.Nil(t, client)
}

func TestNewClient_Connects(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	client, err := redis.NewClient(context.Background(), redis.Config{Address: mr.Addr()}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	require.NoError(t, redis.Ping(context.Background(), client, time.Second))
}

func TestNewClient_RetriesUntilReady(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	mr.SetError("LOADING Redis is loading the dataset in memory")

	attempts := 0
	cfg := redis.Config{
		Address: mr.Addr(),
		Retry: fastRetry(5, func(error) bool {
			attempts++
			if attempts == 2 {
				mr.SetError("")
			}
			return true
		}),
	}

	client, err := redis.NewClient(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, 2, attempts)
}

func TestNewClient_GivesUp(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	mr.SetError("LOADING")

	cfg := redis.Config{Address: mr.Addr(), Retry: fastRetry(2, func(error) bool { return true })}
	client, err := redis.NewClient(context.Background(), cfg, logger.NewNop())

	require.Error(t, err)
	assert.False(t, errors.Is(err, redis.ErrEmptyAddress))
	assert.Nil(t, client)
}
