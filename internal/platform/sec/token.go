// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package sec verifies the access tokens issued by the external identity
provider.

Aloud does not manage credentials itself: every request arrives with a bearer
token minted upstream, and this package only validates the signature and
extracts the caller's identity. The subject claim becomes the owner ID
attached to books, segments, and voice sessions.
*/
package sec

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the validated identity of the current caller.
type AuthClaims struct {
	// UserID is the stable, opaque identifier of the caller (the JWT subject).
	UserID string
}

// TokenVerifier validates bearer tokens and extracts caller claims.
type TokenVerifier interface {
	Verify(token string) (*AuthClaims, error)
}

// HMACVerifier validates HS256 tokens against a shared secret.
type HMACVerifier struct {
	secret []byte
	issuer string
}

// NewHMACVerifier constructs a verifier for tokens signed with the given
// shared secret and issued by the given issuer.
func NewHMACVerifier(secret, issuer string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}
	return &HMACVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses and validates a raw bearer token.
//
// It enforces the HS256 signing method, the expected issuer, and standard
// time-based claims, then returns the subject as [AuthClaims].
func (v *HMACVerifier) Verify(raw string) (*AuthClaims, error) {
	token, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: token validation failed: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("sec: token has no subject")
	}

	return &AuthClaims{UserID: subject}, nil
}
