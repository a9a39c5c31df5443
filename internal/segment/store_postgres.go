// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package segment provides persistence and retrieval for book passages.

The PostgreSQL implementation leans on two schema features:
  - a unique (bookid, segmentindex) constraint backing the gap-free index
    invariant, and
  - a generated tsvector column with a GIN index backing the ranked
    full-text search strategy.

Bulk inserts run through the native pgx.Batch pipeline inside a single
transaction, so a failure anywhere leaves no rows and no count update.
*/
package segment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/database/schema"
	"github.com/aloud-app/aloud/internal/platform/dberr"
	"github.com/aloud-app/aloud/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func segmentColumns() string {
	t := schema.CoreBookSegment
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		t.ID, t.BookID, t.OwnerID, t.Content, t.SegmentIndex, t.PageNumber, t.WordCount,
	)
}

func scanSegment(row interface{ Scan(...any) error }) (*Segment, error) {
	s := &Segment{}
	err := row.Scan(
		&s.ID, &s.BookID, &s.OwnerID, &s.Content,
		&s.SegmentIndex, &s.PageNumber, &s.WordCount,
	)
	return s, err
}

func (repository *PostgresRepository) SaveSegments(context context.Context, bookID, ownerID string, inputs []Input) (int, error) {
	if err := checkContiguous(inputs); err != nil {
		return 0, err
	}

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_save_segments")
	}
	defer func() { _ = transaction.Rollback(context) }()

	t := schema.CoreBookSegment
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`,
		t.Table, t.ID, t.BookID, t.OwnerID, t.Content,
		t.SegmentIndex, t.PageNumber, t.WordCount, t.CreatedAt,
	)

	batch := &pgx.Batch{}
	for _, input := range inputs {
		batch.Queue(insertQuery,
			uuidv7.New(), bookID, ownerID, input.Content,
			input.SegmentIndex, input.PageNumber, input.WordCount,
		)
	}

	response := transaction.SendBatch(context, batch)
	for range inputs {
		if _, err := response.Exec(); err != nil {
			_ = response.Close()
			return 0, errors.Join(ErrPartialWrite, dberr.Wrap(err, "insert_segments"))
		}
	}
	if err := response.Close(); err != nil {
		return 0, errors.Join(ErrPartialWrite, dberr.Wrap(err, "close_segment_batch"))
	}

	// The count update rides in the same transaction: totalsegments only
	// ever reflects a fully persisted segment set.
	bookTable := schema.CoreBook
	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		bookTable.Table, bookTable.TotalSegments, bookTable.ID,
	)
	if _, err := transaction.Exec(context, updateQuery, bookID, len(inputs)); err != nil {
		return 0, errors.Join(ErrPartialWrite, dberr.Wrap(err, "update_total_segments"))
	}

	if err := transaction.Commit(context); err != nil {
		return 0, errors.Join(ErrPartialWrite, dberr.Wrap(err, "commit_save_segments"))
	}

	return len(inputs), nil
}

func (repository *PostgresRepository) DeleteByBook(context context.Context, bookID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreBookSegment.Table, schema.CoreBookSegment.BookID,
	)

	// Zero rows is fine: compensation must stay idempotent even when the
	// failed insert never wrote anything.
	_, err := repository.db.Exec(context, query, bookID)
	return dberr.Wrap(err, "delete_segments_by_book")
}

func (repository *PostgresRepository) CountByBook(context context.Context, bookID string) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.CoreBookSegment.Table, schema.CoreBookSegment.BookID,
	)

	var total int
	if err := repository.db.QueryRow(context, query, bookID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_segments_by_book")
	}
	return total, nil
}

func (repository *PostgresRepository) SearchRanked(context context.Context, bookID, query string, limit int) ([]*Segment, error) {
	t := schema.CoreBookSegment
	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s @@ websearch_to_tsquery('english', $2)
		ORDER BY ts_rank(%s, websearch_to_tsquery('english', $2)) DESC, %s ASC
		LIMIT $3
	`,
		segmentColumns(), t.Table, t.BookID, t.SearchVector,
		t.SearchVector, t.SegmentIndex,
	)

	return repository.querySegments(context, searchQuery, "search_segments_ranked", bookID, query, limit)
}

func (repository *PostgresRepository) SearchPattern(context context.Context, bookID, pattern string, limit int) ([]*Segment, error) {
	t := schema.CoreBookSegment
	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s ~* $2
		ORDER BY %s ASC
		LIMIT $3
	`,
		segmentColumns(), t.Table, t.BookID, t.Content, t.SegmentIndex,
	)

	return repository.querySegments(context, searchQuery, "search_segments_pattern", bookID, pattern, limit)
}

func (repository *PostgresRepository) querySegments(context context.Context, query, action string, args ...any) ([]*Segment, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	segments := []*Segment{}
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}

	return segments, nil
}

// checkContiguous rejects input that violates the parser's ordering
// contract: indices must be exactly 0..len-1, no gaps, no duplicates, and
// the set must be non-empty. Nothing is re-sorted here.
func checkContiguous(inputs []Input) error {
	if len(inputs) == 0 {
		return apperr.ValidationError("Segment list must not be empty")
	}
	for position, input := range inputs {
		if input.SegmentIndex != position {
			return apperr.ValidationError(fmt.Sprintf(
				"Segment indices must be contiguous from 0: got %d at position %d",
				input.SegmentIndex, position,
			))
		}
		if input.Content == "" {
			return apperr.ValidationError(fmt.Sprintf("Segment %d has empty content", position))
		}
	}
	return nil
}
