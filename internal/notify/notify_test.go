package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scriptmark-labs/scriptmark/internal/notify"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebhookPublish(t *testing.T) {
	var received notify.ApprovalEvent
	var contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	event := notify.ApprovalEvent{
		ExecutionID: uuid.New(),
		MarksKey:    "marks/test.json",
		TotalMarks:  18,
		MaxMarks:    20,
		Percentage:  90,
		GeneratedAt: time.Now().UTC(),
	}

	pub := notify.NewWebhook(server.URL, discard())
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
	if received.ExecutionID != event.ExecutionID {
		t.Errorf("received execution %s, want %s", received.ExecutionID, event.ExecutionID)
	}
	if received.MarksKey != event.MarksKey || received.TotalMarks != 18 {
		t.Errorf("received event = %+v", received)
	}
}

func TestWebhookPublishErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	pub := notify.NewWebhook(server.URL, discard())
	if err := pub.Publish(context.Background(), notify.ApprovalEvent{}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestWebhookPublishUnreachable(t *testing.T) {
	pub := notify.NewWebhook("http://127.0.0.1:1", discard())
	if err := pub.Publish(context.Background(), notify.ApprovalEvent{}); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}

func TestNoopPublish(t *testing.T) {
	if err := notify.NewNoop().Publish(context.Background(), notify.ApprovalEvent{}); err != nil {
		t.Fatalf("noop Publish error: %v", err)
	}
}
