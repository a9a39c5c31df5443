// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/aloud-app/aloud/internal/platform/request"
	"github.com/aloud-app/aloud/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.startSession)
	router.Post("/{id}/end", handler.endSession)
}

func (handler *Handler) startSession(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StartInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	started, err := handler.service.Start(request.Context(), ownerID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, started)
}

func (handler *Handler) endSession(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input EndInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ended, err := handler.service.End(request.Context(), ownerID, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ended)
}
