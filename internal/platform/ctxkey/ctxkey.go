// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// Using a private, unexported key type prevents collisions with third-party
// packages that also store values in the request context.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the authenticated caller's claims.
	KeyUser key = "user"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
