// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package ingest_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/ingest"
	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/dberr"
	"github.com/aloud-app/aloud/internal/segment"
)

// memoryBooks is an in-memory [book.Repository] with the slug unique
// constraint and the stale-sweep query the coordinator tests need.
type memoryBooks struct {
	mu    sync.Mutex
	books map[string]*book.Book
}

func newMemoryBooks() *memoryBooks {
	return &memoryBooks{books: map[string]*book.Book{}}
}

func (m *memoryBooks) FindByID(_ context.Context, id string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryBooks) FindBySlug(_ context.Context, slug string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryBooks) List(_ context.Context, _, _ int) ([]*book.Book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*book.Book, 0, len(m.books))
	for _, b := range m.books {
		all = append(all, b)
	}
	return all, len(all), nil
}

func (m *memoryBooks) Insert(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.books {
		if existing.Slug == b.Slug {
			return apperr.Conflict("A book with this slug already exists")
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	m.books[b.ID] = b
	return nil
}

func (m *memoryBooks) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

func (m *memoryBooks) DeleteStale(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, b := range m.books {
		if b.TotalSegments == 0 && b.CreatedAt.Before(cutoff) {
			delete(m.books, id)
			removed++
		}
	}
	return removed, nil
}

// memorySegments is an in-memory [segment.Repository] with failure
// injection. Like the real store, a successful save also updates the
// owning book's segment count.
type memorySegments struct {
	mu       sync.Mutex
	byBook   map[string][]*segment.Segment
	books    *memoryBooks
	failSave error

	saveCalls int
}

func newMemorySegments(books *memoryBooks) *memorySegments {
	return &memorySegments{byBook: map[string][]*segment.Segment{}, books: books}
}

func (m *memorySegments) SaveSegments(_ context.Context, bookID, ownerID string, inputs []segment.Input) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++

	if len(inputs) == 0 {
		return 0, apperr.ValidationError("Segment list must not be empty")
	}
	if m.failSave != nil {
		return 0, m.failSave
	}

	stored := make([]*segment.Segment, 0, len(inputs))
	for _, input := range inputs {
		stored = append(stored, &segment.Segment{
			BookID:       bookID,
			OwnerID:      ownerID,
			Content:      input.Content,
			SegmentIndex: input.SegmentIndex,
			PageNumber:   input.PageNumber,
			WordCount:    input.WordCount,
		})
	}
	m.byBook[bookID] = stored

	m.books.mu.Lock()
	if b, ok := m.books.books[bookID]; ok {
		b.TotalSegments = len(stored)
	}
	m.books.mu.Unlock()

	return len(stored), nil
}

func (m *memorySegments) DeleteByBook(_ context.Context, bookID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byBook, bookID)
	return nil
}

func (m *memorySegments) CountByBook(_ context.Context, bookID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byBook[bookID]), nil
}

func (m *memorySegments) SearchRanked(_ context.Context, _, _ string, _ int) ([]*segment.Segment, error) {
	return []*segment.Segment{}, nil
}

func (m *memorySegments) SearchPattern(_ context.Context, _, _ string, _ int) ([]*segment.Segment, error) {
	return []*segment.Segment{}, nil
}

func threeSegments() []segment.Input {
	return []segment.Input{
		{Content: "In my younger and more vulnerable years", SegmentIndex: 0, PageNumber: 1, WordCount: 7},
		{Content: "my father gave me some advice", SegmentIndex: 1, PageNumber: 1, WordCount: 6},
		{Content: "that I have been turning over in my mind", SegmentIndex: 2, PageNumber: 2, WordCount: 9},
	}
}

func gatsbyInput() book.CreateInput {
	return book.CreateInput{
		Title:         "The Great Gatsby!!",
		Author:        "F. Scott Fitzgerald",
		OwnerID:       "owner-1",
		FileURL:       "http://store/books/x.pdf",
		FileSizeBytes: 1024,
	}
}

func newFixture() (*ingest.Coordinator, *memoryBooks, *memorySegments) {
	books := newMemoryBooks()
	segments := newMemorySegments(books)
	service := book.NewService(books, slog.Default())
	return ingest.NewCoordinator(service, segments, slog.Default()), books, segments
}

func TestIngest_Success(t *testing.T) {
	coordinator, books, segments := newFixture()

	result, err := coordinator.Ingest(context.Background(), gatsbyInput(), threeSegments())
	require.NoError(t, err)

	assert.False(t, result.AlreadyExists)
	assert.Equal(t, 3, result.SegmentsCreated)
	assert.Equal(t, "the-great-gatsby", result.Book.Slug)
	assert.Equal(t, 3, result.Book.TotalSegments)

	count, err := segments.CountByBook(context.Background(), result.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	stored, err := books.FindBySlug(context.Background(), "the-great-gatsby")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TotalSegments)
}

func TestIngest_SegmentFailureRollsBack(t *testing.T) {
	coordinator, books, segments := newFixture()
	segments.failSave = apperr.StorageUnavailable(assert.AnError)

	_, err := coordinator.Ingest(context.Background(), gatsbyInput(), threeSegments())
	require.Error(t, err)

	// Fully absent: no partial aggregate is reachable afterwards.
	_, err = books.FindBySlug(context.Background(), "the-great-gatsby")
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	assert.Empty(t, segments.byBook)
}

func TestIngest_EmptyParserOutputCompensates(t *testing.T) {
	coordinator, books, _ := newFixture()

	_, err := coordinator.Ingest(context.Background(), gatsbyInput(), nil)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNPROCESSABLE", appErr.Code)

	_, err = books.FindBySlug(context.Background(), "the-great-gatsby")
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestIngest_DedupShortCircuits(t *testing.T) {
	coordinator, _, segments := newFixture()

	first, err := coordinator.Ingest(context.Background(), gatsbyInput(), threeSegments())
	require.NoError(t, err)

	second, err := coordinator.Ingest(context.Background(), gatsbyInput(), threeSegments())
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Book.ID, second.Book.ID)
	assert.Equal(t, 0, second.SegmentsCreated)
	// The existing segment set stays untouched: only the first attempt
	// reached the segment store.
	assert.Equal(t, 1, segments.saveCalls)
}

func TestIngest_InvalidInputWritesNothing(t *testing.T) {
	coordinator, books, segments := newFixture()

	input := gatsbyInput()
	input.Title = ""

	_, err := coordinator.Ingest(context.Background(), input, threeSegments())
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Empty(t, books.books)
	assert.Equal(t, 0, segments.saveCalls)
}

func TestSweep_RemovesOnlyStaleEmptyBooks(t *testing.T) {
	books := newMemoryBooks()

	stale := &book.Book{ID: "b-stale", Slug: "stale", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := &book.Book{ID: "b-fresh", Slug: "fresh", CreatedAt: time.Now()}
	complete := &book.Book{ID: "b-done", Slug: "done", TotalSegments: 3, CreatedAt: time.Now().Add(-2 * time.Hour)}
	for _, b := range []*book.Book{stale, fresh, complete} {
		require.NoError(t, books.Insert(context.Background(), b))
	}

	ingest.NewReconciler(books, slog.Default()).Sweep(context.Background())

	_, err := books.FindByID(context.Background(), "b-stale")
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	_, err = books.FindByID(context.Background(), "b-fresh")
	assert.NoError(t, err)

	_, err = books.FindByID(context.Background(), "b-done")
	assert.NoError(t, err)
}
