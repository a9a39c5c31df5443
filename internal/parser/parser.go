// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package parser turns an uploaded PDF into the ordered segment inputs the
ingestion pipeline persists.

Extraction is page by page, so every segment keeps a page number the reader
can be sent back to. Pages that fail to extract are skipped rather than
failing the whole document; a fully unextractable file (scanned or
image-only) simply yields zero segments, which the ingestion coordinator
treats as a failed ingestion.
*/
package parser

import (
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/segment"
)

// PageText is the extracted text of one source page.
type PageText struct {
	Number int
	Text   string
}

// DocumentParser extracts ordered segment inputs from an uploaded document.
type DocumentParser interface {
	Parse(context context.Context, file io.ReaderAt, size int64) ([]segment.Input, error)
}

// PDFParser implements [DocumentParser] for PDF files.
type PDFParser struct{}

func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse extracts every page's plain text and builds segments from it. A
// structurally broken file is an unprocessable error; a readable file with
// no extractable text returns an empty slice and no error.
func (parser *PDFParser) Parse(context context.Context, file io.ReaderAt, size int64) ([]segment.Input, error) {
	reader, err := pdf.NewReader(file, size)
	if err != nil {
		return nil, apperr.Unprocessable("File is not a readable PDF")
	}

	pages := []PageText{}
	for number := 1; number <= reader.NumPage(); number++ {
		if err := context.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip problem pages instead of failing the whole document.
			continue
		}
		pages = append(pages, PageText{Number: number, Text: text})
	}

	return BuildInputs(pages, constants.SegmentTargetWords), nil
}

// BuildInputs converts extracted pages into contiguous, zero-indexed
// segment inputs. Each page is normalized, then split on word boundaries
// into pieces of at most targetWords words; indices run across the whole
// document. Pages that normalize to nothing produce no segments.
func BuildInputs(pages []PageText, targetWords int) []segment.Input {
	if targetWords <= 0 {
		targetWords = constants.SegmentTargetWords
	}

	inputs := []segment.Input{}
	for _, page := range pages {
		words := strings.Fields(Normalize(page.Text))

		for start := 0; start < len(words); start += targetWords {
			end := start + targetWords
			if end > len(words) {
				end = len(words)
			}

			piece := words[start:end]
			inputs = append(inputs, segment.Input{
				Content:      strings.Join(piece, " "),
				SegmentIndex: len(inputs),
				PageNumber:   page.Number,
				WordCount:    len(piece),
			})
		}
	}

	return inputs
}

// Normalize strips NUL bytes and invalid UTF-8 left behind by PDF text
// extraction and collapses all whitespace runs to single spaces.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// CountWords returns the whitespace-delimited word count of a text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
