package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scriptmark-labs/scriptmark/internal/marking"
)

// Input is the execution contract for the orchestrator: the submission
// scripts document and the standard-answer document, plus a flag that
// bypasses orientation correction in both branches.
type Input struct {
	ScriptsKey        string `json:"scripts_key"`
	StandardAnswerKey string `json:"standard_answer_key"`
	SkipRotation      bool   `json:"skip_rotation"`
}

// BranchResult is the output of one branch: orientation correction,
// document analysis, and result transform over a single document.
type BranchResult struct {
	SourceKey    string           `json:"source_key"`
	OrientedKey  string           `json:"oriented_key"`
	JobID        string           `json:"job_id"`
	OutputPrefix string           `json:"output_prefix"`
	Extract      *marking.Extract `json:"extract"`
}

// Combined merges the branch results positionally: branch 0 fills the
// scripts slot and branch 1 the standard-answer slot, regardless of
// completion order.
type Combined struct {
	Scripts        BranchResult `json:"scripts"`
	StandardAnswer BranchResult `json:"standardAnswer"`
}

// Result is the orchestrator's final output.
type Result struct {
	ExecutionID uuid.UUID          `json:"execution_id"`
	Combined    Combined           `json:"combined"`
	Marks       *marking.MarkSheet `json:"marks"`
	MarksKey    string             `json:"marks_key"`
	CompletedAt time.Time          `json:"completed_at"`
}

// MarksKey derives the storage key for an execution's mark sheet.
func MarksKey(executionID uuid.UUID) string {
	return fmt.Sprintf("marks/%s.json", executionID)
}
