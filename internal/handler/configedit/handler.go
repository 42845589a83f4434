package configedit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/papercast/papercast/internal/service/configstore"
	"github.com/papercast/papercast/pkg/httpx"
)

// Handler exposes the configuration editor workflow: load, save, undo,
// reset and the dirty/clean indicator.
type Handler struct {
	store *configstore.Store
}

// New creates the config editor handler.
func New(store *configstore.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the editor endpoints under /config.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/config", func(cr chi.Router) {
		cr.Get("/", h.handleLoad)
		cr.Put("/", h.handleSave)
		cr.Post("/undo", h.handleUndo)
		cr.Post("/reset", h.handleReset)
		cr.Post("/touch", h.handleTouch)
		cr.Get("/state", h.handleState)
	})
}

type documentResponse struct {
	Text  string            `json:"text"`
	State configstore.State `json:"state"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	text, err := h.store.Load()
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.RespondJSON(w, http.StatusOK, documentResponse{Text: text, State: h.store.State()})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Save(payload.Text); err != nil {
		switch {
		case errors.Is(err, configstore.ErrInvalidJSON), errors.Is(err, configstore.ErrInvalidSchema):
			httpx.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]configstore.State{"state": h.store.State()})
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	text, err := h.store.Undo()
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.RespondJSON(w, http.StatusOK, documentResponse{Text: text, State: h.store.State()})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, documentResponse{Text: h.store.Reset(), State: h.store.State()})
}

func (h *Handler) handleTouch(w http.ResponseWriter, r *http.Request) {
	h.store.MarkDirty()
	httpx.RespondJSON(w, http.StatusOK, map[string]configstore.State{"state": h.store.State()})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]configstore.State{"state": h.store.State()})
}
