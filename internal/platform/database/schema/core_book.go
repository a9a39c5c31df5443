// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

// Package schema centralizes table and column names so SQL built in the
// repositories stays consistent with the migrations.
package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table          string
	ID             string
	Slug           string
	Title          string
	Author         string
	OwnerID        string
	CoverURL       string
	FileURL        string
	FileStorageKey string
	FileSizeBytes  string
	Voice          string
	TotalSegments  string
	CreatedAt      string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:          "core.book",
	ID:             "id",
	Slug:           "slug",
	Title:          "title",
	Author:         "author",
	OwnerID:        "ownerid",
	CoverURL:       "coverurl",
	FileURL:        "fileurl",
	FileStorageKey: "filestoragekey",
	FileSizeBytes:  "filesizebytes",
	Voice:          "voice",
	TotalSegments:  "totalsegments",
	CreatedAt:      "createdat",
}

func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Author, t.OwnerID, t.CoverURL, t.FileURL,
		t.FileStorageKey, t.FileSizeBytes, t.Voice, t.TotalSegments, t.CreatedAt,
	}
}
