package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRepository(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisCacheRepository(client)
	ctx := context.Background()

	_, err = repo.GetResponse(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, repo.SetResponse(ctx, "u1:/api/upload:c1", []byte(`{"success":true}`), time.Minute))
	assert.True(t, mr.Exists("idempotency:u1:/api/upload:c1"))

	got, err := repo.GetResponse(ctx, "u1:/api/upload:c1")
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetResponse(ctx, "u1:/api/upload:c1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
