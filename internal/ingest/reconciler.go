// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/platform/constants"
)

// Reconciler sweeps up books abandoned mid-ingestion.
//
// A crash between book creation and segment persistence leaves a book with
// zero segments that no rollback will ever touch. The sweep deletes books
// that still have totalsegments = 0 after a grace period; the grace period
// keeps it from racing an ingestion that is merely in flight.
type Reconciler struct {
	books    book.Repository
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger
}

func NewReconciler(books book.Repository, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		books:    books,
		interval: constants.ReconcileInterval,
		grace:    constants.ReconcileGracePeriod,
		logger:   logger,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. Intended
// to run as a background goroutine for the life of the process.
func (reconciler *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(reconciler.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reconciler.Sweep(ctx)
		}
	}
}

// Sweep deletes every book older than the grace period that never received
// its segments. Errors are logged, never fatal: the next tick tries again.
func (reconciler *Reconciler) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-reconciler.grace)

	removed, err := reconciler.books.DeleteStale(ctx, cutoff)
	if err != nil {
		reconciler.logger.Error("reconcile_sweep_failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		reconciler.logger.Warn("reconcile_swept_abandoned_books", slog.Int("removed", removed))
	}
}
