package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/heyama/objectboard/pkg/objectboard"
)

// maxUploadBytes caps the multipart form size for a create request.
const maxUploadBytes = 32 << 20 // 32 MiB

// ObjectResponse is the response body for an object record
type ObjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func toObjectResponse(record *objectboard.ObjectRecord) ObjectResponse {
	return ObjectResponse{
		ID:          record.ID.String(),
		Title:       record.Title,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		CreatedAt:   record.CreatedAt,
	}
}

// ObjectHandler handles HTTP requests for objects
type ObjectHandler struct {
	service objectboard.Service
}

// NewObjectHandler creates a new object handler
func NewObjectHandler(service objectboard.Service) *ObjectHandler {
	return &ObjectHandler{service: service}
}

// Routes returns the routes for objects
func (h *ObjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateObject)
	r.Get("/", h.ListObjects)
	r.Get("/{id}", h.GetObject)
	r.Delete("/{id}", h.DeleteObject)

	return r
}

// CreateObject registers a new object from a multipart form with "title",
// "description" and an "image" file part.
func (h *ObjectHandler) CreateObject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	record, err := h.service.CreateObject(r.Context(), objectboard.CreateObjectRequest{
		Title:       title,
		Description: description,
		Data:        file,
		File: objectboard.FileInfo{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		},
	})
	if err != nil {
		writeServiceError(w, "create object", err)
		return
	}

	slog.Info("object created", "object_id", record.ID.String(), "title", record.Title)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toObjectResponse(record))
}

// ListObjects lists all objects, newest first
func (h *ObjectHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListObjects(r.Context())
	if err != nil {
		slog.Error("failed to list objects", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]ObjectResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, toObjectResponse(record))
	}

	render.JSON(w, r, resp)
}

// GetObject retrieves an object by ID
func (h *ObjectHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid object ID", http.StatusBadRequest)
		return
	}

	record, err := h.service.GetObject(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get object", err)
		return
	}

	render.JSON(w, r, toObjectResponse(record))
}

// DeleteObject deletes an object by ID
func (h *ObjectHandler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid object ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteObject(r.Context(), id); err != nil {
		writeServiceError(w, "delete object", err)
		return
	}

	slog.Info("object deleted", "object_id", idStr)
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service errors onto HTTP statuses. An invalid image
// URL on a stored record is an invariant violation and never a client
// mistake, so it is logged loudly and answered with a 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, objectboard.ErrObjectNotFound):
		http.Error(w, "object not found", http.StatusNotFound)
	case errors.Is(err, objectboard.ErrEmptyTitle),
		errors.Is(err, objectboard.ErrEmptyDescription),
		errors.Is(err, objectboard.ErrEmptyFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, objectboard.ErrInvalidImageURL):
		slog.Error("stored image url violates blob namespace invariant", "op", op, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		slog.Error("object operation failed", "op", op, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
