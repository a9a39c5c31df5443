// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package ingest orchestrates book creation and segment persistence as one
logical transaction.

The two writes live in different stores' scopes of responsibility, so
instead of a single database transaction the coordinator runs a
compensation protocol: create the book, persist the segments, and on any
segment failure delete what the attempt created. Rollback runs on a context
detached from the caller, so a client disconnect never leaves a half
ingested book behind. The reconciler is the backstop for the remaining gap,
a crash between the two steps.
*/
package ingest

import (
	"context"
	"log/slog"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/segment"
)

// Phase is a step of the ingestion state machine, logged as the attempt
// progresses.
type Phase string

const (
	PhaseStart             Phase = "start"
	PhaseBookResolved      Phase = "book_resolved"
	PhaseSegmentsPersisted Phase = "segments_persisted"
	PhaseRollingBack       Phase = "rolling_back"
	PhaseRolledBack        Phase = "rolled_back"
)

// Result is the outcome of a completed ingestion attempt.
type Result struct {
	Book            *book.Book `json:"book"`
	SegmentsCreated int        `json:"segments_created"`
	// AlreadyExists is true when the title resolved to an existing book;
	// nothing was written in that case.
	AlreadyExists bool `json:"already_exists"`
}

// Coordinator drives the ingestion saga across the book and segment stores.
type Coordinator struct {
	books    *book.Service
	segments segment.Repository
	logger   *slog.Logger
}

func NewCoordinator(books *book.Service, segments segment.Repository, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		books:    books,
		segments: segments,
		logger:   logger,
	}
}

/*
Ingest registers a book and persists its parsed segments.

Description: Step one resolves the book with dedup-on-write semantics; an
existing title short-circuits the whole attempt and the segment set on
record stays untouched. Step two bulk-persists the segments and updates the
book's segment count. Any step-two failure (partial write, storage outage,
a parser that produced no segments) triggers compensation: segments
then book are deleted, idempotently, on a context that survives caller
disconnects. After a failed attempt the aggregate is fully absent; after a
successful one it is fully present.

Parameters:
  - context: context.Context
  - input: book.CreateInput (caller-supplied metadata)
  - inputs: ordered segments produced by the document parser

Returns:
  - *Result: the new or pre-existing book and the number of segments written
  - error: validation, storage, or unprocessable-document errors
*/
func (coordinator *Coordinator) Ingest(context context.Context, input book.CreateInput, inputs []segment.Input) (*Result, error) {
	logger := coordinator.logger.With(slog.String("title", input.Title))
	logger.Info("ingestion_phase", slog.String("phase", string(PhaseStart)))

	created, err := coordinator.books.Create(context, input)
	if err != nil {
		// Nothing was written: create is atomic and idempotent, so the
		// caller may retry the whole attempt from scratch.
		return nil, err
	}
	if created.AlreadyExists {
		logger.Info("ingestion_deduplicated", slog.String("book_id", created.Book.ID))
		return &Result{Book: created.Book, AlreadyExists: true}, nil
	}

	logger = logger.With(slog.String("book_id", created.Book.ID))
	logger.Info("ingestion_phase", slog.String("phase", string(PhaseBookResolved)))

	total, err := coordinator.segments.SaveSegments(context, created.Book.ID, input.OwnerID, inputs)
	if err != nil {
		coordinator.rollback(context, created.Book.ID, logger)

		if len(inputs) == 0 {
			return nil, apperr.Unprocessable("No readable text could be extracted from the document")
		}
		return nil, err
	}

	logger.Info("ingestion_phase",
		slog.String("phase", string(PhaseSegmentsPersisted)),
		slog.Int("segments", total),
	)

	created.Book.TotalSegments = total
	return &Result{Book: created.Book, SegmentsCreated: total}, nil
}

// rollback deletes the segments then the book created by a failed attempt.
// It runs on a detached context: the caller may be gone, rollback is not.
// Both deletes are idempotent; a delete that itself fails is logged and
// left to the reconciliation sweep.
func (coordinator *Coordinator) rollback(ctx context.Context, bookID string, logger *slog.Logger) {
	logger.Warn("ingestion_phase", slog.String("phase", string(PhaseRollingBack)))
	detached := context.WithoutCancel(ctx)

	if err := coordinator.segments.DeleteByBook(detached, bookID); err != nil {
		logger.Error("ingestion_rollback_segments_failed", slog.String("error", err.Error()))
		return
	}
	if err := coordinator.books.Delete(detached, bookID); err != nil {
		logger.Error("ingestion_rollback_book_failed", slog.String("error", err.Error()))
		return
	}

	logger.Warn("ingestion_phase", slog.String("phase", string(PhaseRolledBack)))
}
