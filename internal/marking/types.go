// Package marking transforms analysis output into question/answer extracts
// and scores a submission extract against a standard-answer extract.
package marking

import "time"

// Extract holds the question/answer pairs recovered from one document's
// analysis output. Questions preserves first-appearance order.
type Extract struct {
	Questions []string          `json:"questions"`
	Answers   map[string]string `json:"answers"`
}

// Answer returns the recorded answer for a question, if present.
func (e *Extract) Answer(question string) (string, bool) {
	v, ok := e.Answers[question]
	return v, ok
}

// QuestionMark is the scoring outcome for a single question.
type QuestionMark struct {
	Question string `json:"question"`
	Expected string `json:"expected"`
	Given    string `json:"given"`
	Correct  bool   `json:"correct"`
	Marks    int    `json:"marks"`
	MaxMarks int    `json:"max_marks"`
}

// MarkSheet is the final scoring record produced for an execution.
type MarkSheet struct {
	Questions   []QuestionMark `json:"questions"`
	TotalMarks  int            `json:"total_marks"`
	MaxMarks    int            `json:"max_marks"`
	Percentage  float64        `json:"percentage"`
	GeneratedAt time.Time      `json:"generated_at"`
}
