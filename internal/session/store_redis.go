// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aloud-app/aloud/internal/platform/constants"
)

// RedisActiveGuard implements [ActiveGuard] with a per-owner marker key.
//
// The marker carries a TTL so a session that is never ended (client crash,
// lost connection) releases its slot on its own after a while.
type RedisActiveGuard struct {
	client *redis.Client
}

func NewRedisActiveGuard(client *redis.Client) *RedisActiveGuard {
	return &RedisActiveGuard{client: client}
}

func activeKey(ownerID string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixActiveSession, ownerID)
}

// Acquire claims the owner's slot with SETNX semantics: exactly one live
// session wins, everyone else observes false.
func (guard *RedisActiveGuard) Acquire(context context.Context, ownerID, sessionID string) (bool, error) {
	acquired, err := guard.client.SetNX(context, activeKey(ownerID), sessionID, constants.ActiveSessionTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis_active_session_acquire_failed: %w", err)
	}
	return acquired, nil
}

// Release frees the slot only when this session still holds it, so a stale
// End cannot evict a newer session that claimed the slot after the TTL.
func (guard *RedisActiveGuard) Release(context context.Context, ownerID, sessionID string) error {
	key := activeKey(ownerID)

	holder, err := guard.client.Get(context, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis_active_session_release_failed: %w", err)
	}
	if holder != sessionID {
		return nil
	}

	if err := guard.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_active_session_release_failed: %w", err)
	}
	return nil
}
