package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	s3infra "github.com/people-registry-api/internal/infrastructure/s3"
	"github.com/people-registry-api/internal/pkg/id"
)

// ImageHandler handles profile and project image storage backed by S3.
type ImageHandler struct {
	store *s3infra.Store
}

func NewImageHandler(store *s3infra.Store) *ImageHandler { return &ImageHandler{store: store} }

// ImageEnvelope wraps upload responses.
type ImageEnvelope struct {
	Key   string `json:"key,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

type base64UploadRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64-encoded file content
}

// Upload accepts a multipart form with a "file" field.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage unavailable")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s%s", id.New(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.store.Upload(r.Context(), key, file, contentType)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ImageEnvelope{Key: key, URL: url})
}

// UploadBase64 accepts a JSON body with base64-encoded file content.
func (h *ImageHandler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage unavailable")
		return
	}
	var req base64UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Data == "" {
		writeError(w, http.StatusBadRequest, "missing data field")
		return
	}
	key := fmt.Sprintf("%s%s", id.New(), filepath.Ext(req.Filename))
	url, err := h.store.UploadBase64(r.Context(), key, req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ImageEnvelope{Key: key, URL: url})
}

// Download streams the object back to the client.
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage unavailable")
		return
	}
	key := chi.URLParam(r, "key")
	body, contentType, err := h.store.Download(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage unavailable")
		return
	}
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "image deleted"})
}
