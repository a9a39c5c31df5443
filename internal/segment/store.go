// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package segment

import "context"

type Repository interface {
	// SaveSegments bulk-inserts all segments for a book and, in the same
	// transaction, sets the owning book's totalsegments to the inserted
	// count. It returns the number of segments created.
	//
	// Preconditions: inputs is non-empty and indices are exactly 0..len-1;
	// the parser guarantees ordering, segments are not re-sorted here.
	// On failure the transaction is rolled back, totalsegments is left
	// untouched, and the error wraps [ErrPartialWrite].
	SaveSegments(context context.Context, bookID, ownerID string, inputs []Input) (int, error)

	// DeleteByBook removes every segment of a book. Idempotent: deleting a
	// book with no segments is not an error.
	DeleteByBook(context context.Context, bookID string) error

	// CountByBook returns the number of live segments for a book.
	CountByBook(context context.Context, bookID string) (int, error)

	// SearchRanked is the primary retrieval strategy: full-text match over
	// segment content, most relevant first. Any error means the strategy is
	// unavailable for this call — a signal distinct from zero matches.
	SearchRanked(context context.Context, bookID, query string, limit int) ([]*Segment, error)

	// SearchPattern is the fallback strategy: case-insensitive regex match,
	// ordered by ascending segment index (document order).
	SearchPattern(context context.Context, bookID, pattern string, limit int) ([]*Segment, error)
}
