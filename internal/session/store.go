// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session

import (
	"context"
	"time"
)

type Repository interface {
	Insert(context context.Context, s *VoiceSession) error
	FindByID(context context.Context, id string) (*VoiceSession, error)
	// End sets endedAt and the reported duration. Unknown ids surface as
	// not-found; repeated calls overwrite, last write wins.
	End(context context.Context, id string, endedAt time.Time, durationSeconds int) (*VoiceSession, error)
}

// ActiveGuard enforces at most one live voice session per owner.
type ActiveGuard interface {
	// Acquire claims the owner's active slot for the given session. It
	// reports false when another live session already holds it.
	Acquire(context context.Context, ownerID, sessionID string) (bool, error)
	// Release frees the owner's slot if it is held by the given session.
	Release(context context.Context, ownerID, sessionID string) error
}
