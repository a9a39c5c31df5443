// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package schema

// CoreBookSegmentTable represents the 'core.booksegment' table
type CoreBookSegmentTable struct {
	Table        string
	ID           string
	BookID       string
	OwnerID      string
	Content      string
	SegmentIndex string
	PageNumber   string
	WordCount    string
	SearchVector string
	CreatedAt    string
}

// CoreBookSegment is the schema definition for core.booksegment
var CoreBookSegment = CoreBookSegmentTable{
	Table:        "core.booksegment",
	ID:           "id",
	BookID:       "bookid",
	OwnerID:      "ownerid",
	Content:      "content",
	SegmentIndex: "segmentindex",
	PageNumber:   "pagenumber",
	WordCount:    "wordcount",
	SearchVector: "searchvector",
	CreatedAt:    "createdat",
}

func (t CoreBookSegmentTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.OwnerID, t.Content, t.SegmentIndex,
		t.PageNumber, t.WordCount, t.CreatedAt,
	}
}
