package podcast

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/papercast/papercast/internal/model/podcast"
	"github.com/papercast/papercast/internal/service/pipeline"
	"github.com/papercast/papercast/internal/service/upload"
	"github.com/papercast/papercast/pkg/httpx"
)

// Dispatcher abstracts the generation workflow so handlers can be tested
// without the external pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, job podcast.Job) (podcast.Result, error)
}

// UploadStore abstracts PDF intake.
type UploadStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// Handler exposes the end-to-end flow: PDF uploads, the generate action and
// artifact downloads.
type Handler struct {
	dispatcher Dispatcher
	uploads    UploadStore
	outputDir  string
}

// New creates the podcast handler.
func New(dispatcher Dispatcher, uploads UploadStore, outputDir string) *Handler {
	return &Handler{dispatcher: dispatcher, uploads: uploads, outputDir: outputDir}
}

// RegisterRoutes mounts the podcast endpoints under /podcast.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/podcast", func(pr chi.Router) {
		pr.Post("/uploads", h.handleUpload)
		pr.Post("/generate", h.handleGenerate)
		pr.Get("/artifacts/{name}", h.handleArtifact)
	})
}

// handleUpload accepts one or more PDFs in a multipart form. Field names are
// "target" or "context"; both are stored the same way and the caller keeps
// track of which path plays which role.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	saved := map[string][]string{}
	for _, field := range []string{"target", "context"} {
		for _, header := range r.MultipartForm.File[field] {
			f, err := header.Open()
			if err != nil {
				httpx.RespondError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
				return
			}
			path, err := h.uploads.Save(header.Filename, f)
			f.Close()
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, upload.ErrNotPDF) || errors.Is(err, upload.ErrInvalidPDF) {
					status = http.StatusUnprocessableEntity
				}
				httpx.RespondError(w, status, err.Error())
				return
			}
			saved[field] = append(saved[field], path)
		}
	}

	if len(saved) == 0 {
		httpx.RespondError(w, http.StatusBadRequest, "upload at least one PDF as target or context")
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Target    any      `json:"target"`
		Context   any      `json:"context"`
		Sender    string   `json:"sender"`
		Recipient string   `json:"recipient"`
		Settings  []string `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job := podcast.NewJob(payload.Target, payload.Context, payload.Sender, payload.Recipient, payload.Settings)
	if len(job.TargetPaths) == 0 && len(job.ContextPaths) == 0 {
		httpx.RespondError(w, http.StatusBadRequest, "at least one target or context file is required")
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), job)
	if err != nil {
		// The upstream failure surfaces as-is; the demo has no retry or
		// partial-result handling.
		status := http.StatusBadGateway
		if errors.Is(err, pipeline.ErrNoBaseURL) {
			status = http.StatusInternalServerError
		}
		httpx.RespondError(w, status, err.Error())
		return
	}
	httpx.RespondJSON(w, http.StatusOK, result)
}

// handleArtifact serves a generated audio file for download.
func (h *Handler) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" || name != filepath.Base(name) {
		httpx.RespondError(w, http.StatusBadRequest, "invalid artifact name")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, filepath.Join(h.outputDir, name))
}
