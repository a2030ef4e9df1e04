// Package media exposes the photo upload endpoint shared by every form with
// an image field.
package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/upload"
)

// Handler wires the upload pipeline to HTTP.
type Handler struct {
	logger   *slog.Logger
	pipeline *upload.Pipeline
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, pipeline *upload.Pipeline) *Handler {
	return &Handler{logger: logger, pipeline: pipeline}
}

// MountRoutes registers media routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/photo", h.Upload)
}

type uploadResponse struct {
	State   string `json:"state"`
	DataURI string `json:"data_uri"`
}

// Upload runs one multipart file through the pipeline. The optional
// "previous" field carries the form's current photo value; it comes back
// unchanged when the upload is rejected.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// A touch above the pre-compression limit so oversized files reach the
	// pipeline's own check and produce its error message.
	if err := r.ParseMultipartForm(2 * upload.MaxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "multipart form expected")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 2*upload.MaxUploadBytes+1))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "could not read upload")
		return
	}

	prev := r.FormValue("previous")
	result, err := h.pipeline.Process(prev, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Warn("upload rejected", "error", err, "name", header.Filename, "bytes", len(data))
		respondRejection(w, result, err)
		return
	}

	httpx.Data(w, http.StatusOK, uploadResponse{State: result.State.String(), DataURI: result.DataURI})
}

// respondRejection reports the failure while echoing the preserved previous
// value so clients keep their current photo.
func respondRejection(w http.ResponseWriter, result upload.Result, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, upload.ErrUnsupportedType) {
		status = http.StatusUnsupportedMediaType
	}
	httpx.JSON(w, status, map[string]any{
		"message":  err.Error(),
		"state":    result.State.String(),
		"data_uri": result.DataURI,
	})
}
