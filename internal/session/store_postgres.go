// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloud-app/aloud/internal/platform/database/schema"
	"github.com/aloud-app/aloud/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func sessionColumns() string {
	t := schema.CoreVoiceSession
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		t.ID, t.OwnerID, t.BookID, t.StartedAt, t.EndedAt,
		t.DurationSeconds, t.BillingPeriodStart,
	)
}

func scanSession(row interface{ Scan(...any) error }) (*VoiceSession, error) {
	s := &VoiceSession{}
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.BookID, &s.StartedAt, &s.EndedAt,
		&s.DurationSeconds, &s.BillingPeriodStart,
	)
	return s, err
}

func (repository *PostgresRepository) Insert(context context.Context, s *VoiceSession) error {
	t := schema.CoreVoiceSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		t.Table, t.ID, t.OwnerID, t.BookID, t.StartedAt,
		t.DurationSeconds, t.BillingPeriodStart,
	)

	_, err := repository.db.Exec(context, query,
		s.ID, s.OwnerID, s.BookID, s.StartedAt, s.DurationSeconds, s.BillingPeriodStart,
	)
	return dberr.Wrap(err, "insert_voice_session")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*VoiceSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		sessionColumns(), schema.CoreVoiceSession.Table, schema.CoreVoiceSession.ID,
	)

	s, err := scanSession(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_voice_session")
	}
	return s, nil
}

func (repository *PostgresRepository) End(context context.Context, id string, endedAt time.Time, durationSeconds int) (*VoiceSession, error) {
	t := schema.CoreVoiceSession
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s
	`,
		t.Table, t.EndedAt, t.DurationSeconds, t.ID, sessionColumns(),
	)

	s, err := scanSession(repository.db.QueryRow(context, query, id, endedAt, durationSeconds))
	if err != nil {
		return nil, dberr.Wrap(err, "end_voice_session")
	}
	return s, nil
}
