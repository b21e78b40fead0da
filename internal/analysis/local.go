package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/otiai10/gosseract/v2"

	"github.com/scriptmark-labs/scriptmark/internal/render"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

const sourcePDF = "source.pdf"

// answerLine matches "Q1: B", "2) 42", "Q3 - Paris" and similar OCR output.
var answerLine = regexp.MustCompile(`(?m)^\s*Q?(\d+)\s*[):．.\-]\s*(.+?)\s*$`)

type localJob struct {
	status Status
}

// localEngine is a Tesseract-backed analysis provider for development
// environments without the external analysis service. Jobs run in-process
// and their state is not retained across restarts.
type localEngine struct {
	storage  storage.System
	renderer render.Renderer
	logger   *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*localJob
}

// NewLocalEngine creates a Client that performs OCR locally via Tesseract,
// writing extracted results to storage under the job's output prefix.
func NewLocalEngine(store storage.System, renderer render.Renderer, logger *slog.Logger) Client {
	return &localEngine{
		storage:  store,
		renderer: renderer,
		logger:   logger.With("system", "analysis-local"),
		jobs:     make(map[string]*localJob),
	}
}

func (e *localEngine) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	exists, err := e.storage.Exists(ctx, req.DocumentKey)
	if err != nil {
		return "", fmt.Errorf("check document %s: %w", req.DocumentKey, err)
	}
	if !exists {
		return "", fmt.Errorf("document %s: %w", req.DocumentKey, storage.ErrNotFound)
	}

	jobID := uuid.NewString()

	e.mu.Lock()
	e.jobs[jobID] = &localJob{status: StatusInProgress}
	e.mu.Unlock()

	// The job outlives the submit request; detach from its cancellation.
	go e.process(context.WithoutCancel(ctx), jobID, req.DocumentKey)

	return jobID, nil
}

func (e *localEngine) Status(_ context.Context, jobID string) (Status, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	job, ok := e.jobs[jobID]
	if !ok {
		return "", fmt.Errorf("job %s: %w", jobID, ErrUnknownJob)
	}

	return job.status, nil
}

func (e *localEngine) process(ctx context.Context, jobID, key string) {
	results, err := e.extract(ctx, jobID, key)
	if err == nil {
		err = e.store(ctx, key, jobID, results)
	}

	status := StatusSucceeded
	if err != nil {
		e.logger.Error("local analysis failed", "job_id", jobID, "key", key, "error", err)
		status = StatusFailed
	}

	e.mu.Lock()
	e.jobs[jobID].status = status
	e.mu.Unlock()
}

func (e *localEngine) extract(ctx context.Context, jobID, key string) (*Results, error) {
	tempDir, err := os.MkdirTemp("", "scriptmark-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := tempDir + "/" + sourcePDF
	if err := storage.FetchToFile(ctx, e.storage, key, pdfPath); err != nil {
		return nil, err
	}

	pages, err := e.renderer.RenderPDF(ctx, pdfPath, tempDir)
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	results := &Results{JobID: jobID}

	for _, page := range pages {
		if err := client.SetImage(page.Path); err != nil {
			return nil, fmt.Errorf("page %d: set image: %w", page.Number, err)
		}

		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("page %d: ocr: %w", page.Number, err)
		}

		results.Forms = append(results.Forms, parseAnswerLines(text, page.Number)...)
	}

	return results, nil
}

func (e *localEngine) store(ctx context.Context, key, jobID string, results *Results) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	outKey := OutputPrefix(key, jobID) + "/" + ResultsObject
	if err := e.storage.Upload(ctx, outKey, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("upload results: %w", err)
	}

	e.logger.Info("local analysis complete", "job_id", jobID, "output", outKey)
	return nil
}

// parseAnswerLines extracts numbered answer lines from OCR text as form fields.
// OCR carries no per-field confidence here, so fields report 1.0.
func parseAnswerLines(text string, page int) []FormField {
	var fields []FormField

	for _, match := range answerLine.FindAllStringSubmatch(text, -1) {
		fields = append(fields, FormField{
			Key:        "Q" + match[1],
			Value:      strings.TrimSpace(match[2]),
			Page:       page,
			Confidence: 1.0,
		})
	}

	return fields
}
