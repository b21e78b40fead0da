package executions

import (
	"net/url"

	"github.com/scriptmark-labs/scriptmark/pkg/query"
	"github.com/scriptmark-labs/scriptmark/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "executions", "e").
	Project("id", "ID").
	Project("scripts_key", "ScriptsKey").
	Project("standard_answer_key", "StandardAnswerKey").
	Project("skip_rotation", "SkipRotation").
	Project("status", "Status").
	Project("error", "Error").
	Project("scripts_job_id", "ScriptsJobID").
	Project("standard_answer_job_id", "StandardAnswerJobID").
	Project("marks_key", "MarksKey").
	Project("total_marks", "TotalMarks").
	Project("max_marks", "MaxMarks").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for execution queries.
// Nil fields are ignored. Status uses exact matching; the key filters use
// case-insensitive contains matching.
type Filters struct {
	Status            *string `json:"status,omitempty"`
	ScriptsKey        *string `json:"scripts_key,omitempty"`
	StandardAnswerKey *string `json:"standard_answer_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("ScriptsKey", f.ScriptsKey).
		WhereContains("StandardAnswerKey", f.StandardAnswerKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if sk := values.Get("scripts_key"); sk != "" {
		f.ScriptsKey = &sk
	}

	if ak := values.Get("standard_answer_key"); ak != "" {
		f.StandardAnswerKey = &ak
	}

	return f
}

func scanExecution(s repository.Scanner) (Execution, error) {
	var e Execution
	err := s.Scan(
		&e.ID,
		&e.ScriptsKey,
		&e.StandardAnswerKey,
		&e.SkipRotation,
		&e.Status,
		&e.Error,
		&e.ScriptsJobID,
		&e.StandardAnswerJobID,
		&e.MarksKey,
		&e.TotalMarks,
		&e.MaxMarks,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.CompletedAt,
	)
	return e, err
}
