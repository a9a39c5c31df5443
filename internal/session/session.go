// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package session records voice-reading sessions against billing periods.

A session is simple start/end bookkeeping; the one invariant enforced here
is the active-session guard: at most one live voice session per owner,
backed by a Redis marker with a TTL so an abandoned session eventually
releases its slot.
*/
package session

import "time"

// VoiceSession is one voice-interaction session against a book.
type VoiceSession struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	BookID    string     `json:"book_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	// DurationSeconds is reported by the client on End; last write wins.
	DurationSeconds int `json:"duration_seconds"`
	// BillingPeriodStart anchors the session to the calendar month it is
	// billed against.
	BillingPeriodStart time.Time `json:"billing_period_start"`
}

// StartInput carries the caller-supplied fields for a new session.
type StartInput struct {
	BookID string `json:"book_id"`
}

// EndInput carries the caller-reported outcome of a finished session.
type EndInput struct {
	DurationSeconds int `json:"duration_seconds"`
}

// PeriodClock yields the start of the current billing period.
type PeriodClock interface {
	CurrentPeriodStart() time.Time
}

// CalendarClock implements [PeriodClock] as calendar months in UTC.
type CalendarClock struct{}

func (CalendarClock) CurrentPeriodStart() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Field names for validation
const (
	FieldBookID   = "book_id"
	FieldDuration = "duration_seconds"
	FieldID       = "id"
)
