package executions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scriptmark-labs/scriptmark/internal/executions"
	"github.com/scriptmark-labs/scriptmark/pkg/pagination"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters executions.Filters) (*pagination.PageResult[executions.Execution], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*executions.Execution, error)
	createFn func(ctx context.Context, cmd executions.CreateCommand) (*executions.Execution, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	marksFn  func(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error)
}

func (m *mockSystem) Handler() *executions.Handler {
	return executions.NewHandler(
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters executions.Filters) (*pagination.PageResult[executions.Execution], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*executions.Execution, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd executions.CreateCommand) (*executions.Execution, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Marks(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error) {
	return m.marksFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	group := sys.Handler().Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleExecution() executions.Execution {
	return executions.Execution{
		ID:                uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		ScriptsKey:        "exams/scripts.pdf",
		StandardAnswerKey: "exams/answers.pdf",
		Status:            executions.StatusPending,
		CreatedAt:         time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandlerList(t *testing.T) {
	exec := sampleExecution()

	t.Run("returns paginated list", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(context.Context, pagination.PageRequest, executions.Filters) (*pagination.PageResult[executions.Execution], error) {
				result := pagination.NewPageResult([]executions.Execution{exec}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[executions.Execution]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 || len(result.Data) != 1 || result.Data[0].ID != exec.ID {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("passes query filters", func(t *testing.T) {
		var captured executions.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, filters executions.Filters) (*pagination.PageResult[executions.Execution], error) {
				captured = filters
				result := pagination.NewPageResult([]executions.Execution{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions?status=RUNNING&scripts_key=exams", nil))

		if captured.Status == nil || *captured.Status != "RUNNING" {
			t.Error("status filter not passed")
		}
		if captured.ScriptsKey == nil || *captured.ScriptsKey != "exams" {
			t.Error("scripts_key filter not passed")
		}
	})
}

func TestHandlerFind(t *testing.T) {
	exec := sampleExecution()

	t.Run("returns execution", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*executions.Execution, error) {
				if id != exec.ID {
					t.Errorf("id = %v, want %v", id, exec.ID)
				}
				return &exec, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions/"+exec.ID.String(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("maps not found", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*executions.Execution, error) {
				return nil, executions.ErrNotFound
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions/"+uuid.NewString(), nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("rejects invalid id", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions/not-a-uuid", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	exec := sampleExecution()

	t.Run("accepts execution", func(t *testing.T) {
		var captured executions.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd executions.CreateCommand) (*executions.Execution, error) {
				captured = cmd
				return &exec, nil
			},
		}
		mux := setupMux(sys)

		body := bytes.NewBufferString(`{"scripts_key":"exams/scripts.pdf","standard_answer_key":"exams/answers.pdf","skip_rotation":true}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/executions", body))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", rec.Code)
		}
		if captured.ScriptsKey != "exams/scripts.pdf" || !captured.SkipRotation {
			t.Errorf("command = %+v", captured)
		}
	})

	t.Run("maps missing source", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(context.Context, executions.CreateCommand) (*executions.Execution, error) {
				return nil, executions.ErrSourceNotFound
			},
		}
		mux := setupMux(sys)

		body := bytes.NewBufferString(`{"scripts_key":"missing.pdf","standard_answer_key":"a.pdf"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/executions", body))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/executions", bytes.NewBufferString("{")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	t.Run("deletes terminal execution", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(context.Context, uuid.UUID) error { return nil },
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/executions/"+uuid.NewString(), nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("rejects in-progress execution", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(context.Context, uuid.UUID) error { return executions.ErrNotTerminal },
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/executions/"+uuid.NewString(), nil))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}

func TestHandlerMarks(t *testing.T) {
	t.Run("streams mark sheet", func(t *testing.T) {
		payload := `{"total_marks":5}`
		sys := &mockSystem{
			marksFn: func(context.Context, uuid.UUID) (*storage.DownloadResult, error) {
				return &storage.DownloadResult{
					Body:          io.NopCloser(strings.NewReader(payload)),
					ContentType:   "application/json",
					ContentLength: int64(len(payload)),
				}, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions/"+uuid.NewString()+"/marks", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
		}
		if rec.Body.String() != payload {
			t.Errorf("body = %q, want %q", rec.Body.String(), payload)
		}
	})

	t.Run("maps not ready", func(t *testing.T) {
		sys := &mockSystem{
			marksFn: func(context.Context, uuid.UUID) (*storage.DownloadResult, error) {
				return nil, executions.ErrMarksNotReady
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/executions/"+uuid.NewString()+"/marks", nil))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status   executions.Status
		terminal bool
	}{
		{executions.StatusPending, false},
		{executions.StatusRunning, false},
		{executions.StatusSucceeded, true},
		{executions.StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{executions.ErrNotFound, http.StatusNotFound},
		{executions.ErrDuplicate, http.StatusConflict},
		{executions.ErrInvalidInput, http.StatusBadRequest},
		{executions.ErrSourceNotFound, http.StatusBadRequest},
		{executions.ErrMarksNotReady, http.StatusConflict},
		{executions.ErrNotTerminal, http.StatusConflict},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := executions.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
