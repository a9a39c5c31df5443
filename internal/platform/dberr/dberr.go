// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

// Package dberr bridges low-level PostgreSQL errors and application errors.
//
// Stores call [Wrap] on every returned error so the rest of the system only
// ever sees [apperr.AppError] values, never raw driver errors.
package dberr

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aloud-app/aloud/internal/platform/apperr"
)

// ErrNotFound is the standard error when a queried row does not exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and classifies it as an [apperr.AppError].
//
// # Classification
//
//   - pgx.ErrNoRows → NOT_FOUND
//   - SQLSTATE 23505 (unique violation) → CONFLICT
//   - connection failures, timeouts, admin shutdowns → STORAGE_UNAVAILABLE
//   - everything else → INTERNAL_ERROR
//
// The action parameter names the failed operation for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists")
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CrashShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.TooManyConnections:
			return apperr.StorageUnavailable(err)
		}
	}

	if isTransient(err) {
		return apperr.StorageUnavailable(err)
	}

	return apperr.Internal(err)
}

// IsDuplicate reports whether err was classified as a unique-constraint
// violation. BookRegistry uses this to convert the loser of a concurrent
// create race into an "already existed" response.
func IsDuplicate(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == "CONFLICT"
}

// IsUnavailable reports whether err was classified as a transient storage
// failure that a caller may retry.
func IsUnavailable(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == "STORAGE_UNAVAILABLE"
}

// isTransient detects network-level and deadline failures that occur before
// the server can even return a SQLSTATE.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
