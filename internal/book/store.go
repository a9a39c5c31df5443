// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package book

import (
	"context"
	"time"
)

type Repository interface {
	FindByID(context context.Context, id string) (*Book, error)
	FindBySlug(context context.Context, slug string) (*Book, error)
	List(context context.Context, limit, offset int) ([]*Book, int, error)
	// Insert persists a new book. A slug collision surfaces as a CONFLICT
	// error (the store's unique constraint resolves concurrent creates).
	Insert(context context.Context, b *Book) error
	// Delete removes a book by id. Deleting a missing book is not an error;
	// the ingestion rollback path relies on this being idempotent.
	Delete(context context.Context, id string) error
	// DeleteStale removes books that never received their segments
	// (totalsegments = 0) and are older than the cutoff. Returns the number
	// of rows removed.
	DeleteStale(context context.Context, cutoff time.Time) (int, error)
}
