package marking

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/scriptmark-labs/scriptmark/internal/analysis"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

// questionKey matches question identifiers such as "Q1", "q12", or a bare "7".
var questionKey = regexp.MustCompile(`^[Qq]?\s*(\d+)\s*[.:)]?$`)

// Transform maps analysis output into an Extract. Form fields contribute
// directly; table rows contribute when their first cell is a question
// identifier and the second an answer. The first value seen for a question
// wins.
func Transform(results *analysis.Results) *Extract {
	extract := &Extract{
		Answers: make(map[string]string),
	}

	for _, field := range results.Forms {
		addAnswer(extract, field.Key, field.Value)
	}

	for _, table := range results.Tables {
		for _, row := range table.Rows {
			if len(row) < 2 {
				continue
			}
			addAnswer(extract, row[0], row[1])
		}
	}

	return extract
}

// FetchExtract downloads and transforms a completed job's results from the
// given output prefix.
func FetchExtract(ctx context.Context, store storage.System, prefix string) (*Extract, error) {
	key := prefix + "/" + analysis.ResultsObject

	result, err := store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", ErrTransformFailed, key, err)
	}
	defer result.Body.Close()

	var results analysis.Results
	if err := json.NewDecoder(result.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrTransformFailed, key, err)
	}

	return Transform(&results), nil
}

func addAnswer(e *Extract, rawKey, rawValue string) {
	question, ok := normalizeQuestion(rawKey)
	if !ok {
		return
	}

	value := strings.TrimSpace(rawValue)
	if value == "" {
		return
	}

	if _, seen := e.Answers[question]; seen {
		return
	}

	e.Questions = append(e.Questions, question)
	e.Answers[question] = value
}

func normalizeQuestion(raw string) (string, bool) {
	match := questionKey.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return "", false
	}
	return "Q" + match[1], true
}
