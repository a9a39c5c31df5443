// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package book

import "time"

// Book is one uploaded publication: the root of the book/segment aggregate.
type Book struct {
	ID string `json:"id"`
	// Slug is the canonical key derived from the title at creation time.
	// It is unique across all books and immutable once set.
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	OwnerID string `json:"owner_id"`

	// Opaque references to externally stored binary assets.
	CoverURL       string `json:"cover_url"`
	FileURL        string `json:"file_url"`
	FileStorageKey string `json:"-"`
	FileSizeBytes  int64  `json:"file_size_bytes"`

	// Voice is the persona used by the reading assistant.
	Voice string `json:"voice"`

	// TotalSegments mirrors the number of live segments. It stays 0 until
	// segment persistence succeeds, which is how half-ingested books are
	// recognized.
	TotalSegments int       `json:"total_segments"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateInput carries the caller-supplied fields for a new book.
type CreateInput struct {
	Title          string
	Author         string
	OwnerID        string
	CoverURL       string
	FileURL        string
	FileStorageKey string
	FileSizeBytes  int64
	Voice          string
}

// CreateResult is the outcome of an idempotent create.
type CreateResult struct {
	Book *Book `json:"book"`
	// AlreadyExists is true when a book with the same canonical key was
	// found; the returned Book is then the existing record, untouched.
	AlreadyExists bool `json:"already_exists"`
}

// ExistsResult is the outcome of a side-effect-free title probe.
type ExistsResult struct {
	Exists bool  `json:"exists"`
	Book   *Book `json:"book,omitempty"`
}

// Field names for validation
const (
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldOwnerID  = "owner_id"
	FieldFileSize = "file_size_bytes"
	FieldSlug     = "slug"
)
