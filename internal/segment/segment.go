// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package segment

import "errors"

// Segment is one numbered, retrievable passage of a book's text.
type Segment struct {
	ID      string `json:"id"`
	BookID  string `json:"book_id"`
	OwnerID string `json:"owner_id"`
	Content string `json:"content"`
	// SegmentIndex is the zero-based position within the book. Indices form
	// a contiguous sequence 0..total-1 once ingestion succeeds.
	SegmentIndex int `json:"segment_index"`
	PageNumber   int `json:"page_number"`
	WordCount    int `json:"word_count"`
}

// Input is one segment as produced by the document parser, before it is
// assigned an identity.
type Input struct {
	Content      string
	SegmentIndex int
	PageNumber   int
	WordCount    int
}

// ErrPartialWrite marks a bulk insert that failed after it may have written
// rows. The store guarantees totalsegments was not updated when this is
// returned; the ingestion coordinator always compensates on it.
var ErrPartialWrite = errors.New("segment bulk write failed partway")

// Field names for validation
const (
	FieldBookID  = "book_id"
	FieldQuery   = "query"
	FieldLimit   = "limit"
	FieldContent = "content"
)
