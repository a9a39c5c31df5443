// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package book owns creation and lookup of book records: the registry side of
the ingestion pipeline.

The central rule here is dedup-on-write: at most one book exists per
canonical slug, and creating a title that already exists returns the
existing record flagged "already exists" instead of an error. Client-side
races (double-submit, two tabs) are absorbed, not surfaced.
*/
package book

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/platform/dberr"
	"github.com/aloud-app/aloud/internal/platform/validate"
	"github.com/aloud-app/aloud/pkg/slug"
	"github.com/aloud-app/aloud/pkg/uuidv7"
)

// Service orchestrates the business logic of the book registry.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Lookups

// ListBooks returns a newest-first page of the catalogue.
func (service *Service) ListBooks(context context.Context, limit, offset int) ([]*Book, int, error) {
	return service.repo.List(context, limit, offset)
}

// GetBook fetches a single book by UUID or canonical slug.
//
// The lookup strategy is detected from the identifier format, so URLs may
// carry either form.
func (service *Service) GetBook(context context.Context, identifier string) (*Book, error) {
	if isUUID(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

// Exists reports whether a book with the given title is already registered.
//
// It computes the canonical key and probes the store. No writes happen.
func (service *Service) Exists(context context.Context, title string) (*ExistsResult, error) {
	key := slug.From(title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).Slug(FieldSlug, key)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindBySlug(context, key)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return &ExistsResult{Exists: false}, nil
		}
		return nil, err
	}

	return &ExistsResult{Exists: true, Book: existing}, nil
}

// # Registration

/*
Create registers a new book with dedup-on-write semantics.

Description: The canonical key is derived from the title. If a book with
that key already exists — found by the pre-read, or discovered when this
insert loses a race against a concurrent create on the store's unique
constraint — the existing book is returned with AlreadyExists set, never an
error. Only a genuinely new key inserts a record, which starts with
TotalSegments = 0 until segment persistence completes.

Parameters:
  - context: context.Context
  - input: CreateInput (caller-supplied metadata)

Returns:
  - *CreateResult: the new or pre-existing book
  - error: validation or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*CreateResult, error) {
	key := slug.From(input.Title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, constants.MaxTitleLen)
	validator.Required(FieldAuthor, input.Author).MaxLen(FieldAuthor, input.Author, constants.MaxAuthorLen)
	validator.Required(FieldOwnerID, input.OwnerID)
	validator.Positive(FieldFileSize, input.FileSizeBytes)
	// A symbol-only title produces an empty key and is rejected here,
	// before any write.
	validator.Slug(FieldSlug, key)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Cheap pre-read: the common duplicate case (re-upload of a known
	// title) never reaches the insert path.
	existing, err := service.repo.FindBySlug(context, key)
	if err == nil {
		return &CreateResult{Book: existing, AlreadyExists: true}, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	voice := input.Voice
	if voice == "" {
		voice = constants.DefaultVoice
	}

	newBook := &Book{
		ID:             uuidv7.New(),
		Slug:           key,
		Title:          input.Title,
		Author:         input.Author,
		OwnerID:        input.OwnerID,
		CoverURL:       input.CoverURL,
		FileURL:        input.FileURL,
		FileStorageKey: input.FileStorageKey,
		FileSizeBytes:  input.FileSizeBytes,
		Voice:          voice,
		TotalSegments:  0,
	}

	if err := service.repo.Insert(context, newBook); err != nil {
		// Race loser: a concurrent create landed between the pre-read and
		// this insert. The unique constraint on the slug resolves the race;
		// convert the loss into the idempotent "already existed" outcome.
		if dberr.IsDuplicate(err) {
			winner, findErr := service.repo.FindBySlug(context, key)
			if findErr != nil {
				return nil, findErr
			}
			return &CreateResult{Book: winner, AlreadyExists: true}, nil
		}
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", newBook.ID),
		slog.String("slug", newBook.Slug),
	)

	return &CreateResult{Book: newBook, AlreadyExists: false}, nil
}

// Delete removes a book record. It is the compensation primitive used by
// the ingestion coordinator and stays idempotent.
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.String("book_id", id))
	return nil
}

// isUUID reports whether the identifier parses as a UUID.
func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
