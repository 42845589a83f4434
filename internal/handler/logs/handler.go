package logs

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/papercast/papercast/pkg/httpx"
)

// Feed is the slice of the log tailer the handlers need.
type Feed interface {
	Snapshot() string
	Subscribe() chan string
	Unsubscribe(ch chan string)
}

// Handler republishes the tailed log file: a plain snapshot for one-shot
// polling, an SSE stream for the page's output box and a websocket feed.
type Handler struct {
	feed     Feed
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates the logs handler.
func New(feed Feed, logger *slog.Logger) *Handler {
	return &Handler{
		feed:   feed,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Single-operator demo; the page may sit behind a proxy prefix.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the log endpoints under /logs.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/logs", func(lr chi.Router) {
		lr.Get("/", h.handleSnapshot)
		lr.Get("/stream", h.handleStream)
		lr.Get("/ws", h.handleWebsocket)
	})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"contents": h.feed.Snapshot()})
}

// handleStream pushes each published snapshot as an SSE event until the
// client goes away.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	httpx.SetupSSEHeaders(w)

	sub := h.feed.Subscribe()
	defer h.feed.Unsubscribe(sub)

	httpx.SendSSEEvent(w, flusher, "logs", map[string]string{"contents": h.feed.Snapshot()})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case contents := <-sub:
			httpx.SendSSEEvent(w, flusher, "logs", map[string]string{"contents": contents})
		}
	}
}

// handleWebsocket mirrors the SSE feed over a websocket for clients that
// prefer one.
func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := h.feed.Subscribe()
	defer h.feed.Unsubscribe(sub)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(h.feed.Snapshot())); err != nil {
		return
	}

	// Drain client frames so close handshakes are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case contents := <-sub:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(contents)); err != nil {
				return
			}
		}
	}
}
