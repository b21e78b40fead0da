package marking_test

import (
	"testing"

	"github.com/scriptmark-labs/scriptmark/internal/analysis"
	"github.com/scriptmark-labs/scriptmark/internal/marking"
)

func TestTransformForms(t *testing.T) {
	results := &analysis.Results{
		Forms: []analysis.FormField{
			{Key: "Q1", Value: "B"},
			{Key: "q2:", Value: " C "},
			{Key: "3", Value: "D"},
			{Key: "Name", Value: "irrelevant"},
			{Key: "Q1", Value: "shadowed"},
			{Key: "Q4", Value: "   "},
		},
	}

	extract := marking.Transform(results)

	want := map[string]string{"Q1": "B", "Q2": "C", "Q3": "D"}
	if len(extract.Answers) != len(want) {
		t.Fatalf("answers = %v, want %v", extract.Answers, want)
	}
	for q, a := range want {
		if extract.Answers[q] != a {
			t.Errorf("answer[%s] = %q, want %q", q, extract.Answers[q], a)
		}
	}

	if len(extract.Questions) != 3 || extract.Questions[0] != "Q1" || extract.Questions[2] != "Q3" {
		t.Errorf("question order = %v, want [Q1 Q2 Q3]", extract.Questions)
	}
}

func TestTransformTables(t *testing.T) {
	results := &analysis.Results{
		Tables: []analysis.Table{
			{
				Page: 1,
				Rows: [][]string{
					{"Question", "Answer", "Notes"},
					{"Q1", "True"},
					{"2", "False", "extra"},
					{"short"},
				},
			},
		},
	}

	extract := marking.Transform(results)

	if extract.Answers["Q1"] != "True" {
		t.Errorf("answer[Q1] = %q, want True", extract.Answers["Q1"])
	}
	if extract.Answers["Q2"] != "False" {
		t.Errorf("answer[Q2] = %q, want False", extract.Answers["Q2"])
	}
	if len(extract.Answers) != 2 {
		t.Errorf("answers = %v, want 2 entries", extract.Answers)
	}
}

func TestTransformFormsWinOverTables(t *testing.T) {
	results := &analysis.Results{
		Forms: []analysis.FormField{{Key: "Q1", Value: "form"}},
		Tables: []analysis.Table{
			{Rows: [][]string{{"Q1", "table"}}},
		},
	}

	extract := marking.Transform(results)
	if extract.Answers["Q1"] != "form" {
		t.Errorf("answer[Q1] = %q, want the form value to win", extract.Answers["Q1"])
	}
}

func TestGenerate(t *testing.T) {
	standard := &marking.Extract{
		Questions: []string{"Q1", "Q2", "Q3", "Q4"},
		Answers: map[string]string{
			"Q1": "B",
			"Q2": "photosynthesis",
			"Q3": "True",
			"Q4": "42",
		},
	}
	scripts := &marking.Extract{
		Questions: []string{"Q1", "Q2", "Q3", "Q5"},
		Answers: map[string]string{
			"Q1": " b ",
			"Q2": "Photosynthesis",
			"Q3": "False",
			"Q5": "unscored",
		},
	}

	sheet := marking.Generate(scripts, standard, 2)

	if len(sheet.Questions) != 4 {
		t.Fatalf("scored %d questions, want 4", len(sheet.Questions))
	}
	if sheet.TotalMarks != 4 {
		t.Errorf("TotalMarks = %d, want 4", sheet.TotalMarks)
	}
	if sheet.MaxMarks != 8 {
		t.Errorf("MaxMarks = %d, want 8", sheet.MaxMarks)
	}
	if sheet.Percentage != 50 {
		t.Errorf("Percentage = %v, want 50", sheet.Percentage)
	}

	if !sheet.Questions[0].Correct {
		t.Error("Q1: case and whitespace differences should still match")
	}
	if sheet.Questions[2].Correct {
		t.Error("Q3: wrong answer marked correct")
	}
	if sheet.Questions[3].Correct {
		t.Error("Q4: unanswered question marked correct")
	}
}

func TestGenerateEmptyStandard(t *testing.T) {
	sheet := marking.Generate(
		&marking.Extract{Answers: map[string]string{}},
		&marking.Extract{Answers: map[string]string{}},
		1,
	)

	if sheet.MaxMarks != 0 || sheet.TotalMarks != 0 || sheet.Percentage != 0 {
		t.Errorf("empty standard produced marks: %+v", sheet)
	}
}

func TestGenerateEmptyAnswerNeverCorrect(t *testing.T) {
	standard := &marking.Extract{
		Questions: []string{"Q1"},
		Answers:   map[string]string{"Q1": "  "},
	}
	scripts := &marking.Extract{Answers: map[string]string{}}

	sheet := marking.Generate(scripts, standard, 1)
	if sheet.Questions[0].Correct {
		t.Error("blank expected and blank given must not match")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello   world ", "HELLO WORLD"},
		{"Answer", "ANSWER"},
		{"\tA\nB", "A B"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := marking.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
