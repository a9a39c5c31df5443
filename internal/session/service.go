// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/validate"
	"github.com/aloud-app/aloud/pkg/uuidv7"
)

// Service orchestrates voice session bookkeeping.
type Service struct {
	repo   Repository
	guard  ActiveGuard
	clock  PeriodClock
	logger *slog.Logger
}

func NewService(repo Repository, guard ActiveGuard, clock PeriodClock, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		clock:  clock,
		logger: logger,
	}
}

// Start opens a voice session for the owner against a book.
//
// The active-session guard is claimed before anything is written: a second
// concurrent session for the same owner is rejected with a conflict. The
// billing period is anchored by the injected clock at start time.
func (service *Service) Start(context context.Context, ownerID string, input StartInput) (*VoiceSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookID, input.BookID).UUID(FieldBookID, input.BookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	id := uuidv7.New()

	acquired, err := service.guard.Acquire(context, ownerID, id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if !acquired {
		return nil, apperr.Conflict("A voice session is already active for this account")
	}

	newSession := &VoiceSession{
		ID:                 id,
		OwnerID:            ownerID,
		BookID:             input.BookID,
		StartedAt:          time.Now().UTC(),
		DurationSeconds:    0,
		BillingPeriodStart: service.clock.CurrentPeriodStart(),
	}

	if err := service.repo.Insert(context, newSession); err != nil {
		// The slot was claimed for a session that never existed; free it
		// rather than waiting out the TTL.
		if releaseErr := service.guard.Release(context, ownerID, id); releaseErr != nil {
			service.logger.Error("session_guard_release_failed", slog.String("error", releaseErr.Error()))
		}
		return nil, err
	}

	service.logger.Info("session_started",
		slog.String("session_id", newSession.ID),
		slog.String("book_id", newSession.BookID),
	)

	return newSession, nil
}

// End closes a session with the client-reported duration. Unknown ids, and
// sessions belonging to someone else, are not-found. Repeated ends
// overwrite, last write wins.
func (service *Service) End(context context.Context, ownerID, sessionID string, input EndInput) (*VoiceSession, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, sessionID)
	validator.Custom(FieldDuration, input.DurationSeconds < 0, "must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindByID(context, sessionID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, apperr.NotFound("Session")
	}

	ended, err := service.repo.End(context, sessionID, time.Now().UTC(), input.DurationSeconds)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Release(context, ownerID, sessionID); err != nil {
		// The TTL cleans this up; ending the session still succeeded.
		service.logger.Error("session_guard_release_failed", slog.String("error", err.Error()))
	}

	service.logger.Info("session_ended",
		slog.String("session_id", ended.ID),
		slog.Int("duration_seconds", ended.DurationSeconds),
	)

	return ended, nil
}
