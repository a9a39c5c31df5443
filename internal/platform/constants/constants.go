// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package constants provides centralized, immutable values for the platform.

It defines timeouts, limits, and cross-cutting keys shared between layers so
magic numbers stay out of the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "aloud-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out response writes.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Uploads carry a whole PDF, so this is generous.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often idle IP entries are removed.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before eviction.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # Books & Ingestion

const (
	// MaxTitleLen bounds the book title length.
	MaxTitleLen = 100

	// MaxAuthorLen bounds the author name length.
	MaxAuthorLen = 100

	// MaxBookFileBytes is the upload ceiling for the book PDF (50 MB).
	MaxBookFileBytes = 50 << 20

	// MaxCoverImageBytes is the upload ceiling for the cover image (10 MB).
	MaxCoverImageBytes = 10 << 20

	// DefaultVoice is the persona applied when an upload omits one.
	DefaultVoice = "sage"

	// ReconcileGracePeriod is how old an empty book must be before the
	// reconciliation sweep treats it as an abandoned ingestion.
	ReconcileGracePeriod = 1 * time.Hour

	// ReconcileInterval is how often the sweep runs.
	ReconcileInterval = 15 * time.Minute
)

// # Document Parsing

const (
	// SegmentTargetWords is the word budget for one segment. Pages longer
	// than this are split on word boundaries into multiple segments.
	SegmentTargetWords = 160
)

// # Segment Search

const (
	// DefaultSearchLimit is the number of segments returned when the caller
	// does not specify one.
	DefaultSearchLimit = 5

	// MaxSearchLimit caps a single search response.
	MaxSearchLimit = 50

	// MinSearchTokenLen is the shortest query token the fallback strategy
	// keeps; shorter tokens are stopword-ish noise.
	MinSearchTokenLen = 3
)

// # Voice Sessions

const (
	// ActiveSessionTTL bounds how long an unclosed session holds the
	// per-owner active marker in Redis.
	ActiveSessionTTL = 2 * time.Hour
)

// # Authentication

const (
	// AuthIssuer is the expected 'iss' claim in access tokens.
	AuthIssuer = "aloud.app"
)

// # JSON Field Identifiers

const (
	FieldData   = "data"
	FieldMeta   = "meta"
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
	FieldApp    = "app"
)

// # Redis Prefixes

const (
	RedisPrefixActiveSession = "session:active:"
)
