// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package book

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

// bookColumns is the SELECT list shared by all lookups.
func bookColumns() string {
	t := schema.CoreBook
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Slug, t.Title, t.Author, t.OwnerID, t.CoverURL, t.FileURL,
		t.FileStorageKey, t.FileSizeBytes, t.Voice, t.TotalSegments, t.CreatedAt,
	)
}

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	b := &Book{}
	err := row.Scan(
		&b.ID, &b.Slug, &b.Title, &b.Author, &b.OwnerID, &b.CoverURL,
		&b.FileURL, &b.FileStorageKey, &b.FileSizeBytes, &b.Voice,
		&b.TotalSegments, &b.CreatedAt,
	)
	return b, err
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		bookColumns(), schema.CoreBook.Table, schema.CoreBook.ID,
	)

	b, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_id")
	}
	return b, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		bookColumns(), schema.CoreBook.Table, schema.CoreBook.Slug,
	)

	b, err := scanBook(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_slug")
	}
	return b, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Book, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreBook.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		bookColumns(), schema.CoreBook.Table, schema.CoreBook.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, total, nil
}

func (repository *PostgresRepository) Insert(context context.Context, b *Book) error {
	t := schema.CoreBook
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING %s
	`,
		t.Table, t.ID, t.Slug, t.Title, t.Author, t.OwnerID, t.CoverURL,
		t.FileURL, t.FileStorageKey, t.FileSizeBytes, t.Voice, t.TotalSegments,
		t.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		b.ID, b.Slug, b.Title, b.Author, b.OwnerID, b.CoverURL,
		b.FileURL, b.FileStorageKey, b.FileSizeBytes, b.Voice, b.TotalSegments,
	).Scan(&b.CreatedAt)

	return dberr.Wrap(err, "insert_book")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreBook.Table, schema.CoreBook.ID,
	)

	// Zero rows affected is fine: rollback may run after a partial failure
	// where the book was never written, and must stay idempotent.
	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "delete_book")
}

func (repository *PostgresRepository) DeleteStale(context context.Context, cutoff time.Time) (int, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = 0 AND %s < $1`,
		t.Table, t.TotalSegments, t.CreatedAt,
	)

	cmd, err := repository.db.Exec(context, query, cutoff)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_stale_books")
	}

	return int(cmd.RowsAffected()), nil
}
