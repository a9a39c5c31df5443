// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/aloud-app/aloud/internal/platform/request"
	"github.com/aloud-app/aloud/internal/platform/respond"
	"github.com/aloud-app/aloud/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Get("/exists", handler.bookExists)
	router.Get("/{identifier}", handler.getBook)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	books, total, err := handler.service.ListBooks(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) bookExists(writer http.ResponseWriter, request *http.Request) {
	title := request.URL.Query().Get("title")

	result, err := handler.service.Exists(request.Context(), title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	found, err := handler.service.GetBook(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}
