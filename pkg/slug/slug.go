// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

// Package slug derives canonical ASCII keys from human-entered titles.
//
// # Usage
//
// The slug doubles as the book deduplication key and the public URL
// identifier (e.g. "the-great-gatsby"). Two titles that differ only in
// casing, whitespace, or punctuation intentionally map to the same slug.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Decompose to NFD and drop combining marks (é → e).
//  2. Lowercase.
//  3. Map every non-alphanumeric rune to a hyphen.
//  4. Collapse hyphen runs and trim leading/trailing hyphens.
//
// From is pure and deterministic. It never fails: a title with no usable
// characters yields the empty string, which callers must reject before
// persisting.
func From(s string) string {
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, _ := transform.String(deaccent, s)

	ascii = strings.ToLower(ascii)

	var b strings.Builder
	b.Grow(len(ascii))
	lastHyphen := true // swallow leading separators
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
