// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/dberr"
	"github.com/aloud-app/aloud/internal/session"
)

type memorySessions struct {
	mu         sync.Mutex
	sessions   map[string]*session.VoiceSession
	failInsert error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*session.VoiceSession{}}
}

func (m *memorySessions) Insert(_ context.Context, s *session.VoiceSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessions) FindByID(_ context.Context, id string) (*session.VoiceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, dberr.ErrNotFound
}

func (m *memorySessions) End(_ context.Context, id string, endedAt time.Time, durationSeconds int) (*session.VoiceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	s.EndedAt = &endedAt
	s.DurationSeconds = durationSeconds
	return s, nil
}

// memoryGuard mirrors the Redis guard's single-slot semantics.
type memoryGuard struct {
	mu      sync.Mutex
	holders map[string]string
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{holders: map[string]string{}}
}

func (g *memoryGuard) Acquire(_ context.Context, ownerID, sessionID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.holders[ownerID]; held {
		return false, nil
	}
	g.holders[ownerID] = sessionID
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, ownerID, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holders[ownerID] == sessionID {
		delete(g.holders, ownerID)
	}
	return nil
}

// fixedClock pins the billing period for assertions.
type fixedClock struct{ start time.Time }

func (c fixedClock) CurrentPeriodStart() time.Time { return c.start }

const testBookID = "0190245e-8a2a-7cc3-9d5f-3f0a2b1c4d5e"

func newSessionFixture() (*session.Service, *memorySessions, *memoryGuard, time.Time) {
	repo := newMemorySessions()
	guard := newMemoryGuard()
	periodStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	service := session.NewService(repo, guard, fixedClock{start: periodStart}, slog.Default())
	return service, repo, guard, periodStart
}

func TestStart_RecordsBillingPeriod(t *testing.T) {
	service, _, _, periodStart := newSessionFixture()

	started, err := service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.NoError(t, err)

	assert.NotEmpty(t, started.ID)
	assert.Equal(t, "owner-1", started.OwnerID)
	assert.Equal(t, periodStart, started.BillingPeriodStart)
	assert.Equal(t, 0, started.DurationSeconds)
	assert.Nil(t, started.EndedAt)
	assert.False(t, started.StartedAt.IsZero())
}

func TestStart_SecondLiveSessionConflicts(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	_, err := service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.NoError(t, err)

	_, err = service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestStart_InsertFailureReleasesGuard(t *testing.T) {
	service, repo, guard, _ := newSessionFixture()
	repo.failInsert = apperr.StorageUnavailable(assert.AnError)

	_, err := service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.Error(t, err)

	assert.Empty(t, guard.holders, "a failed start must not leave the slot claimed")
}

func TestEnd_LastWriteWins(t *testing.T) {
	service, _, guard, _ := newSessionFixture()

	started, err := service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.NoError(t, err)

	first, err := service.End(context.Background(), "owner-1", started.ID, session.EndInput{DurationSeconds: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, first.DurationSeconds)
	assert.NotNil(t, first.EndedAt)
	assert.Empty(t, guard.holders)

	second, err := service.End(context.Background(), "owner-1", started.ID, session.EndInput{DurationSeconds: 45})
	require.NoError(t, err)
	assert.Equal(t, 45, second.DurationSeconds)
}

func TestEnd_UnknownSession(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	_, err := service.End(context.Background(), "owner-1",
		"0190245e-8a2a-7cc3-9d5f-3f0a2b1c4d00", session.EndInput{DurationSeconds: 10})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestEnd_OtherOwnersSessionIsNotFound(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	started, err := service.Start(context.Background(), "owner-1", session.StartInput{BookID: testBookID})
	require.NoError(t, err)

	_, err = service.End(context.Background(), "owner-2", started.ID, session.EndInput{DurationSeconds: 10})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestEnd_NegativeDurationRejected(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	_, err := service.End(context.Background(), "owner-1", testBookID, session.EndInput{DurationSeconds: -1})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCalendarClock_MonthStartUTC(t *testing.T) {
	start := session.CalendarClock{}.CurrentPeriodStart()

	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.UTC, start.Location())
	assert.Zero(t, start.Hour())
	assert.Zero(t, start.Minute())
}
