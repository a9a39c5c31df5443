// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aloud-app/aloud/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline on representative titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Rich Dad Poor Dad", "rich-dad-poor-dad"},
		{"trailing_punctuation", "The Great Gatsby!!", "the-great-gatsby"},
		{"mixed_case", "tHe GrEaT gAtSbY", "the-great-gatsby"},
		{"extra_whitespace", "  The   Great\tGatsby ", "the-great-gatsby"},
		{"accents", "Les Misérables", "les-miserables"},
		{"numbers", "1984", "1984"},
		{"apostrophes", "Charlotte's Web", "charlotte-s-web"},
		{"empty", "", ""},
		{"symbols_only", "!!! ???", ""},
		{"leading_symbols", "...dune", "dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_CollisionByDesign asserts that titles differing only in case,
whitespace, or punctuation collapse to the same key. This property is the
book deduplication mechanism.
*/
func TestFrom_CollisionByDesign(t *testing.T) {
	variants := []string{
		"The Great Gatsby",
		"the great gatsby",
		"THE GREAT GATSBY!",
		"The  Great   Gatsby",
		"The Great Gatsby...",
		"(The Great Gatsby)",
	}

	want := slug.From(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, slug.From(v), "variant %q should collide", v)
	}
}
