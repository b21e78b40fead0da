// Package notify publishes approval events for completed executions.
// The channel is publish-only; no consumers are assumed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ApprovalEvent announces a generated mark sheet awaiting approval.
type ApprovalEvent struct {
	ExecutionID uuid.UUID `json:"execution_id"`
	MarksKey    string    `json:"marks_key"`
	TotalMarks  int       `json:"total_marks"`
	MaxMarks    int       `json:"max_marks"`
	Percentage  float64   `json:"percentage"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher delivers approval events to a notification channel.
type Publisher interface {
	Publish(ctx context.Context, event ApprovalEvent) error
}

type webhook struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewWebhook creates a Publisher that POSTs approval events as JSON to
// the given endpoint.
func NewWebhook(endpoint string, logger *slog.Logger) Publisher {
	return &webhook{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With("system", "notify"),
	}
}

func (w *webhook) Publish(ctx context.Context, event ApprovalEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode approval event: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		w.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish approval event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("publish approval event: unexpected status %d", resp.StatusCode)
	}

	w.logger.Info(
		"approval event published",
		"execution_id", event.ExecutionID,
		"marks_key", event.MarksKey,
	)

	return nil
}

type noop struct{}

// NewNoop creates a Publisher that discards events, used when the
// notification channel is disabled.
func NewNoop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, ApprovalEvent) error {
	return nil
}
