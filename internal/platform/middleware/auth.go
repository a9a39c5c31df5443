// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package middleware

import (
	"net/http"
	"strings"

	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/platform/ctxutil"
	"github.com/aloud-app/aloud/internal/platform/sec"
)

// Authenticate parses an optional bearer token and attaches the caller's
// claims to the request context.
//
// A missing or invalid token does NOT reject the request here — public
// routes stay reachable, and handlers that need identity enforce it via
// requestutil.RequiredClaims.
func Authenticate(verifier sec.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			raw := bearerToken(request)
			if raw == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				// Invalid tokens are treated as anonymous. Handlers that
				// require identity will reject with 401 downstream.
				ctxutil.GetLogger(request.Context()).Debug("auth_token_rejected")
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
