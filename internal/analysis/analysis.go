// Package analysis implements the document-analysis job runner.
// It submits a multi-page document to an analysis provider, polls the
// job until a terminal status, and derives the output location of the
// extracted form and table data.
package analysis

import (
	"context"
	"fmt"
)

// Status is the lifecycle state reported by an analysis job.
type Status string

// Job statuses reported by analysis providers.
const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether the status ends the polling loop.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Features that can be requested from an analysis job.
const (
	FeatureForms  = "FORMS"
	FeatureTables = "TABLES"
)

// SubmitRequest carries the inputs for a new analysis job.
type SubmitRequest struct {
	DocumentKey  string   `json:"document_key"`
	OutputPrefix string   `json:"output_prefix"`
	Features     []string `json:"features"`
}

// Client submits analysis jobs and reports their status.
type Client interface {
	Submit(ctx context.Context, req SubmitRequest) (string, error)
	Status(ctx context.Context, jobID string) (Status, error)
}

// Result is the output of a successfully completed analysis job.
// OutputPrefix locates the extracted data in object storage.
type Result struct {
	JobID        string `json:"job_id"`
	OutputPrefix string `json:"output_prefix"`
}

// ResultsObject is the object name written under a job's output prefix.
const ResultsObject = "results.json"

// OutputPrefix derives the storage prefix for a job's extracted data.
func OutputPrefix(key, jobID string) string {
	return fmt.Sprintf("%s/%s", key, jobID)
}

// FormField is a key-value pair extracted from a document form.
type FormField struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
}

// Table is a grid of cell values extracted from a document page.
type Table struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

// Results is the extracted data document written to storage by a completed job.
type Results struct {
	JobID  string      `json:"job_id"`
	Forms  []FormField `json:"forms"`
	Tables []Table     `json:"tables"`
}
