package marking

import (
	"math"
	"strings"
	"time"
)

// Generate scores a scripts extract against the standard-answer extract.
// Every question in the standard answer is worth marksPerQuestion; the
// submission earns full marks for a normalized match and zero otherwise.
// Questions present only in the submission are ignored.
func Generate(scripts, standard *Extract, marksPerQuestion int) *MarkSheet {
	if marksPerQuestion < 1 {
		marksPerQuestion = 1
	}

	sheet := &MarkSheet{
		Questions:   make([]QuestionMark, 0, len(standard.Questions)),
		GeneratedAt: time.Now().UTC(),
	}

	for _, question := range standard.Questions {
		expected := standard.Answers[question]
		given, _ := scripts.Answer(question)

		mark := QuestionMark{
			Question: question,
			Expected: expected,
			Given:    given,
			Correct:  Normalize(given) != "" && Normalize(given) == Normalize(expected),
			MaxMarks: marksPerQuestion,
		}
		if mark.Correct {
			mark.Marks = marksPerQuestion
		}

		sheet.Questions = append(sheet.Questions, mark)
		sheet.TotalMarks += mark.Marks
		sheet.MaxMarks += mark.MaxMarks
	}

	if sheet.MaxMarks > 0 {
		pct := float64(sheet.TotalMarks) / float64(sheet.MaxMarks) * 100
		sheet.Percentage = math.Round(pct*100) / 100
	}

	return sheet
}

// Normalize prepares an answer for comparison: surrounding whitespace is
// stripped, internal runs collapse to single spaces, and case is folded.
func Normalize(answer string) string {
	fields := strings.Fields(answer)
	return strings.ToUpper(strings.Join(fields, " "))
}
