package logs

import (
	"bufio"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type fakeFeed struct {
	snapshot string
	sub      chan string
}

func (f *fakeFeed) Snapshot() string          { return f.snapshot }
func (f *fakeFeed) Subscribe() chan string    { return f.sub }
func (f *fakeFeed) Unsubscribe(_ chan string) {}

func setupRouter(feed Feed) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	r := chi.NewRouter()
	New(feed, logger).RegisterRoutes(r)
	return r
}

func TestSnapshotEndpoint(t *testing.T) {
	r := setupRouter(&fakeFeed{snapshot: "hello from the pipeline\n", sub: make(chan string, 1)})

	req := httptest.NewRequest(http.MethodGet, "/logs/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "hello from the pipeline") {
		t.Fatalf("snapshot missing contents: %s", resp.Body.String())
	}
}

func TestStreamSendsInitialSnapshotAndUpdates(t *testing.T) {
	feed := &fakeFeed{snapshot: "initial", sub: make(chan string, 1)}
	srv := httptest.NewServer(setupRouter(feed))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/logs/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", got)
	}

	feed.sub <- "initial plus update"

	reader := bufio.NewReader(resp.Body)
	var lines []string
	deadline := time.After(2 * time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for len(lines) < 6 {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			lines = append(lines, line)
		}
	}()
	select {
	case <-done:
	case <-deadline:
		t.Fatal("timed out reading SSE stream")
	}

	joined := strings.Join(lines, "")
	if !strings.Contains(joined, "initial") {
		t.Fatalf("stream missing initial snapshot: %q", joined)
	}
	if !strings.Contains(joined, "initial plus update") {
		t.Fatalf("stream missing published update: %q", joined)
	}
}

func TestWebsocketFeed(t *testing.T) {
	feed := &fakeFeed{snapshot: "ws snapshot", sub: make(chan string, 1)}
	srv := httptest.NewServer(setupRouter(feed))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/logs/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "ws snapshot" {
		t.Fatalf("expected initial snapshot, got %q", msg)
	}

	feed.sub <- "ws update"
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "ws update" {
		t.Fatalf("expected published update, got %q", msg)
	}
}
