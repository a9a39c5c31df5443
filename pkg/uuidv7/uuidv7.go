// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// Every Aloud table uses UUIDv7 primary keys. Identifiers are generated
// explicitly by the application (never assigned by the store), and the
// time-sortable layout keeps PostgreSQL b-tree indexes append-friendly.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable, which is an
// unrecoverable system-level failure.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
