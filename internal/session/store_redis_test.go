// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/session"
)

func newGuard(t *testing.T) (*session.RedisActiveGuard, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisActiveGuard(client), server
}

func TestActiveGuard_SingleLiveSessionPerOwner(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "owner-1", "session-a")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = guard.Acquire(ctx, "owner-1", "session-b")
	require.NoError(t, err)
	assert.False(t, acquired, "second session must not claim an occupied slot")

	// A different owner is unaffected.
	acquired, err = guard.Acquire(ctx, "owner-2", "session-c")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestActiveGuard_ReleaseFreesSlot(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	_, err := guard.Acquire(ctx, "owner-1", "session-a")
	require.NoError(t, err)

	require.NoError(t, guard.Release(ctx, "owner-1", "session-a"))

	acquired, err := guard.Acquire(ctx, "owner-1", "session-b")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestActiveGuard_StaleReleaseKeepsNewerSession(t *testing.T) {
	guard, server := newGuard(t)
	ctx := context.Background()

	_, err := guard.Acquire(ctx, "owner-1", "session-a")
	require.NoError(t, err)

	// The first session's marker expires, a new session claims the slot.
	server.FastForward(constants.ActiveSessionTTL)

	acquired, err := guard.Acquire(ctx, "owner-1", "session-b")
	require.NoError(t, err)
	require.True(t, acquired)

	// The old session's late End must not evict the new holder.
	require.NoError(t, guard.Release(ctx, "owner-1", "session-a"))

	acquired, err = guard.Acquire(ctx, "owner-1", "session-c")
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestActiveGuard_ReleaseWithoutAcquireIsNoop(t *testing.T) {
	guard, _ := newGuard(t)

	assert.NoError(t, guard.Release(context.Background(), "owner-1", "session-x"))
}
