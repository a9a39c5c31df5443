// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloud-app/aloud/internal/parser"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses whitespace runs", "a  b\n\nc\td", "a b c d"},
		{"strips nul bytes", "a\x00b", "a b"},
		{"trims edges", "  hello  ", "hello"},
		{"empty input", "", ""},
		{"whitespace only", " \n\t ", ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, parser.Normalize(testCase.input))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, parser.CountWords(""))
	assert.Equal(t, 3, parser.CountWords("one two three"))
	assert.Equal(t, 2, parser.CountWords("  spaced\n out  "))
}

func TestBuildInputs_ContiguousAcrossPages(t *testing.T) {
	pages := []parser.PageText{
		{Number: 1, Text: "first page words"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "third page words"},
	}

	inputs := parser.BuildInputs(pages, 100)

	require.Len(t, inputs, 2)
	assert.Equal(t, 0, inputs[0].SegmentIndex)
	assert.Equal(t, 1, inputs[0].PageNumber)
	assert.Equal(t, 1, inputs[1].SegmentIndex)
	assert.Equal(t, 3, inputs[1].PageNumber)
}

func TestBuildInputs_SplitsLongPages(t *testing.T) {
	// 25 words with a 10-word budget must split 10/10/5.
	words := make([]string, 25)
	for i := range words {
		words[i] = "word"
	}
	pages := []parser.PageText{{Number: 4, Text: strings.Join(words, " ")}}

	inputs := parser.BuildInputs(pages, 10)

	require.Len(t, inputs, 3)
	assert.Equal(t, 10, inputs[0].WordCount)
	assert.Equal(t, 10, inputs[1].WordCount)
	assert.Equal(t, 5, inputs[2].WordCount)
	for position, input := range inputs {
		assert.Equal(t, position, input.SegmentIndex)
		assert.Equal(t, 4, input.PageNumber)
		assert.NotEmpty(t, input.Content)
	}
}

func TestBuildInputs_NoExtractableText(t *testing.T) {
	inputs := parser.BuildInputs([]parser.PageText{{Number: 1, Text: " \x00 "}}, 10)

	assert.Empty(t, inputs)
	assert.NotNil(t, inputs)
}
