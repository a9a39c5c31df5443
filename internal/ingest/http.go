// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aloud-app/aloud/internal/book"
	"github.com/aloud-app/aloud/internal/parser"
	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/platform/objectstore"
	requestutil "github.com/aloud-app/aloud/internal/platform/request"
	"github.com/aloud-app/aloud/internal/platform/respond"
	"github.com/aloud-app/aloud/pkg/uuidv7"
)

// multipartMemoryLimit is how much of the form is held in memory before
// spilling to temp files.
const multipartMemoryLimit = 32 << 20

type Handler struct {
	coordinator *Coordinator
	parser      parser.DocumentParser
	uploader    objectstore.Uploader
}

func NewHandler(coordinator *Coordinator, documentParser parser.DocumentParser, uploader objectstore.Uploader) *Handler {
	return &Handler{
		coordinator: coordinator,
		parser:      documentParser,
		uploader:    uploader,
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.uploadBook)
}

/*
uploadBook accepts a multipart book upload and runs the full ingestion
pipeline: extract segments from the PDF, store the binary assets, then
coordinate book and segment persistence. Assets uploaded for an attempt
that fails, or that resolves to an already existing book, are removed
again.

Form fields: title, author, voice (optional), file (the PDF), cover
(optional image).
*/
func (handler *Handler) uploadBook(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body,
		constants.MaxBookFileBytes+constants.MaxCoverImageBytes+multipartMemoryLimit)
	if err := request.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request must be multipart form data within the size limits"))
		return
	}

	file, fileHeader, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("A PDF file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	if fileHeader.Size > constants.MaxBookFileBytes {
		respond.Error(writer, request, apperr.ValidationError("Book file exceeds the maximum size"))
		return
	}

	inputs, err := handler.parser.Parse(request.Context(), file, fileHeader.Size)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Rewind: the parser consumed the stream the upload needs.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	fileUpload, err := handler.uploader.Put(request.Context(),
		fmt.Sprintf("books/%s.pdf", uuidv7.New()), file, fileHeader.Size, "application/pdf")
	if err != nil {
		respond.Error(writer, request, apperr.StorageUnavailable(err))
		return
	}
	uploaded := []string{fileUpload.StorageKey}

	coverURL, coverKey, err := handler.uploadCover(request)
	if err != nil {
		handler.removeUploads(request.Context(), uploaded)
		respond.Error(writer, request, err)
		return
	}
	if coverKey != "" {
		uploaded = append(uploaded, coverKey)
	}

	result, err := handler.coordinator.Ingest(request.Context(), book.CreateInput{
		Title:          request.FormValue("title"),
		Author:         request.FormValue("author"),
		OwnerID:        ownerID,
		CoverURL:       coverURL,
		FileURL:        fileUpload.URL,
		FileStorageKey: fileUpload.StorageKey,
		FileSizeBytes:  fileHeader.Size,
		Voice:          request.FormValue("voice"),
	}, inputs)
	if err != nil {
		handler.removeUploads(request.Context(), uploaded)
		respond.Error(writer, request, err)
		return
	}
	if result.AlreadyExists {
		// The existing record keeps its original assets; this attempt's
		// blobs are orphans.
		handler.removeUploads(request.Context(), uploaded)
		respond.OK(writer, result)
		return
	}

	respond.Created(writer, result)
}

// uploadCover stores the optional cover image. Returns empty values when no
// cover was sent.
func (handler *Handler) uploadCover(request *http.Request) (url, key string, err error) {
	cover, coverHeader, err := request.FormFile("cover")
	if errors.Is(err, http.ErrMissingFile) {
		return "", "", nil
	}
	if err != nil {
		return "", "", apperr.ValidationError("Cover image could not be read")
	}
	defer func() { _ = cover.Close() }()

	if coverHeader.Size > constants.MaxCoverImageBytes {
		return "", "", apperr.ValidationError("Cover image exceeds the maximum size")
	}

	upload, err := handler.uploader.Put(request.Context(),
		fmt.Sprintf("covers/%s%s", uuidv7.New(), coverExtension(coverHeader)),
		cover, coverHeader.Size, coverHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", "", apperr.StorageUnavailable(err)
	}

	return upload.URL, upload.StorageKey, nil
}

// removeUploads releases blobs belonging to a failed or deduplicated
// attempt. Runs detached: cleanup must finish even if the caller is gone.
func (handler *Handler) removeUploads(ctx context.Context, keys []string) {
	detached := context.WithoutCancel(ctx)
	for _, key := range keys {
		_ = handler.uploader.Remove(detached, key)
	}
}

func coverExtension(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
