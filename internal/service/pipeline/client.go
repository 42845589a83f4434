package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/papercast/papercast/internal/model/podcast"
)

// ErrNoBaseURL means the pipeline service location was never configured.
// The demo does not pre-validate this at startup; it surfaces on the first
// generate action.
var ErrNoBaseURL = errors.New("pipeline base URL is not configured (set API_SERVICE_URL)")

// Client issues generation requests to the external PDF-to-podcast pipeline.
// One synchronous call per generate action; no retry, no timeout beyond the
// request context.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a Client for the pipeline at baseURL. An empty baseURL is
// allowed here and rejected at call time.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// Generate submits the request and waits for the pipeline to finish. The
// pipeline writes the artifact to a path the caller predicts; the response
// body carries nothing this demo consumes.
func (c *Client) Generate(ctx context.Context, req podcast.GenerationRequest) error {
	if c.baseURL == "" {
		return ErrNoBaseURL
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call pipeline service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pipeline service returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
