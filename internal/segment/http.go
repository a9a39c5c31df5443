// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package segment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/constants"
	requestutil "github.com/aloud-app/aloud/internal/platform/request"
	"github.com/aloud-app/aloud/internal/platform/respond"
)

type Handler struct {
	engine *SearchEngine
	books  *book.Service
}

func NewHandler(engine *SearchEngine, books *book.Service) *Handler {
	return &Handler{
		engine: engine,
		books:  books,
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{identifier}/search", handler.searchSegments)
}

// searchSegments resolves the book from its UUID or slug, then runs the
// query against that book's segments.
func (handler *Handler) searchSegments(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	found, err := handler.books.GetBook(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query().Get("q")

	limit := constants.DefaultSearchLimit
	if raw := request.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Limit must be an integer"))
			return
		}
		limit = parsed
	}

	results, err := handler.engine.Search(request.Context(), found.ID, query, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}
