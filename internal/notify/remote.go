package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinmanhq/tinman/internal/types"
)

// remoteTimeout bounds a single notification POST so a stuck endpoint
// cannot stall the next scheduled cycle for longer than this.
const remoteTimeout = 10 * time.Second

// remotePayload is the wire envelope for remote notifications
type remotePayload struct {
	Source string                 `json:"source"`
	Result *types.HeartbeatResult `json:"result"`
}

// RemoteSink POSTs each result as JSON to a listening HTTP endpoint.
// Delivery is fire-and-forget: any non-2xx response or network fault is
// a soft failure.
type RemoteSink struct {
	endpoint string
	client   *http.Client
}

// NewRemoteSink creates a sink for the given endpoint URL
func NewRemoteSink(endpoint string) *RemoteSink {
	return &RemoteSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: remoteTimeout},
	}
}

// Name identifies the sink in diagnostics
func (s *RemoteSink) Name() string { return "remote" }

// Notify issues one POST per result
func (s *RemoteSink) Notify(result *types.HeartbeatResult) error {
	body, err := json.Marshal(remotePayload{Source: "tinman", Result: result})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused; the response body is unused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint %s returned %s", s.endpoint, resp.Status)
	}
	return nil
}
