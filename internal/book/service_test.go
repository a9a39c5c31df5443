// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package book_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/dberr"
)

// memoryRepository is an in-memory [book.Repository] that enforces the slug
// unique constraint the way the real store does.
type memoryRepository struct {
	mu    sync.Mutex
	books map[string]*book.Book // keyed by id
	// failInsert simulates a transient storage outage.
	failInsert error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{books: map[string]*book.Book{}}
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryRepository) FindBySlug(_ context.Context, slug string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryRepository) List(_ context.Context, limit, offset int) ([]*book.Book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*book.Book, 0, len(m.books))
	for _, b := range m.books {
		all = append(all, b)
	}
	return all, len(all), nil
}

func (m *memoryRepository) Insert(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	for _, existing := range m.books {
		if existing.Slug == b.Slug {
			// Same classification the postgres store produces for
			// SQLSTATE 23505.
			return apperr.Conflict("Resource already exists")
		}
	}
	b.CreatedAt = time.Now()
	m.books[b.ID] = b
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

func (m *memoryRepository) DeleteStale(_ context.Context, cutoff time.Time) (int, error) {
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

func newService(repo book.Repository) *book.Service {
	return book.NewService(repo, slog.Default())
}

func validInput() book.CreateInput {
	return book.CreateInput{
		Title:         "The Great Gatsby!!",
		Author:        "F. Scott Fitzgerald",
		OwnerID:       "user-1",
		FileSizeBytes: 2048,
	}
}

/*
TestCreate_NewBook verifies slug derivation and initial state of a freshly
registered book.
*/
func TestCreate_NewBook(t *testing.T) {
	service := newService(newMemoryRepository())

	result, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, result.AlreadyExists)
	assert.Equal(t, "the-great-gatsby", result.Book.Slug)
	assert.Equal(t, 0, result.Book.TotalSegments)
	assert.NotEmpty(t, result.Book.ID)
	// Default voice applied when the upload omits one.
	assert.NotEmpty(t, result.Book.Voice)
}

/*
TestCreate_Idempotent verifies that creating the same title twice returns
the first book flagged AlreadyExists, with no second record.
*/
func TestCreate_Idempotent(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo)

	first, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.False(t, first.AlreadyExists)

	// Same title, different incidental punctuation: same canonical key.
	input := validInput()
	input.Title = "the great GATSBY"
	second, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Book.ID, second.Book.ID)
	assert.Len(t, repo.books, 1)
}

/*
TestCreate_RaceLoserConvertsToAlreadyExists simulates losing the
unique-constraint race between the pre-read and the insert.
*/
func TestCreate_RaceLoserConvertsToAlreadyExists(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo)

	// Concurrent creates for the same title: the fake repository's
	// constraint guarantees only one record wins; the loser must see
	// AlreadyExists, not an error.
	const attempts = 8
	results := make([]*book.CreateResult, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Create(context.Background(), validInput())
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		if !results[i].AlreadyExists {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, repo.books, 1)
}

/*
TestCreate_InvalidInput covers rejection before any write occurs.
*/
func TestCreate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*book.CreateInput)
	}{
		{"empty_title", func(in *book.CreateInput) { in.Title = "" }},
		{"symbol_only_title", func(in *book.CreateInput) { in.Title = "!!! ???" }},
		{"empty_author", func(in *book.CreateInput) { in.Author = "" }},
		{"oversized_title", func(in *book.CreateInput) {
			long := make([]byte, 101)
			for i := range long {
				long[i] = 'a'
			}
			in.Title = string(long)
		}},
		{"zero_file_size", func(in *book.CreateInput) { in.FileSizeBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			service := newService(repo)

			input := validInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Empty(t, repo.books, "invalid input must not write")
		})
	}
}

/*
TestCreate_StorageUnavailable verifies transient failures surface with the
retryable classification and leave no partial state.
*/
func TestCreate_StorageUnavailable(t *testing.T) {
	repo := newMemoryRepository()
	repo.failInsert = apperr.StorageUnavailable(assert.AnError)
	service := newService(repo)

	_, err := service.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, dberr.IsUnavailable(err))
	assert.Empty(t, repo.books)
}

/*
TestExists probes the side-effect-free title check.
*/
func TestExists(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo)

	result, err := service.Exists(context.Background(), "The Great Gatsby")
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Nil(t, result.Book)

	created, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Casing and punctuation variants all hit the same record.
	result, err = service.Exists(context.Background(), "THE great gatsby...")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	require.NotNil(t, result.Book)
	assert.Equal(t, created.Book.ID, result.Book.ID)
}
