// Package executions implements the execution domain: registration,
// persistence, and querying of marking workflow runs, and the background
// launch of the orchestrator for each accepted execution.
package executions

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an execution record.
type Status string

// Execution statuses.
const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Execution represents one run of the marking workflow. Pointer fields are
// populated as the run progresses; they remain NULL for runs that never
// reached the corresponding step.
type Execution struct {
	ID                  uuid.UUID  `json:"id"`
	ScriptsKey          string     `json:"scripts_key"`
	StandardAnswerKey   string     `json:"standard_answer_key"`
	SkipRotation        bool       `json:"skip_rotation"`
	Status              Status     `json:"status"`
	Error               *string    `json:"error,omitempty"`
	ScriptsJobID        *string    `json:"scripts_job_id,omitempty"`
	StandardAnswerJobID *string    `json:"standard_answer_job_id,omitempty"`
	MarksKey            *string    `json:"marks_key,omitempty"`
	TotalMarks          *int       `json:"total_marks,omitempty"`
	MaxMarks            *int       `json:"max_marks,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// CreateCommand carries the data needed to register and launch a new execution.
type CreateCommand struct {
	ScriptsKey        string `json:"scripts_key"`
	StandardAnswerKey string `json:"standard_answer_key"`
	SkipRotation      bool   `json:"skip_rotation"`
}
