package domain

import (
	"fmt"
	"sort"
	"strings"
)

// QuestionType identifies how a survey question's answers are compared.
type QuestionType int

const (
	// QuestionNumeric - free numeric input within a configured [min,max] range
	QuestionNumeric QuestionType = iota + 1
	// QuestionOrdinal - one option from an ordered list (e.g. Likert scales)
	QuestionOrdinal
	// QuestionSingleChoice - one option from an unordered list
	QuestionSingleChoice
	// QuestionMultiChoice - any subset of an unordered option list
	QuestionMultiChoice
	// QuestionFreeText - unconstrained text input
	QuestionFreeText
)

// String returns the string representation of QuestionType
func (qt QuestionType) String() string {
	switch qt {
	case QuestionNumeric:
		return "numeric"
	case QuestionOrdinal:
		return "ordinal"
	case QuestionSingleChoice:
		return "single_choice"
	case QuestionMultiChoice:
		return "multi_choice"
	case QuestionFreeText:
		return "free_text"
	default:
		return "unknown"
	}
}

// ParseQuestionType parses a string into a QuestionType
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number":
		return QuestionNumeric, nil
	case "ordinal":
		return QuestionOrdinal, nil
	case "single_choice", "single":
		return QuestionSingleChoice, nil
	case "multi_choice", "multi":
		return QuestionMultiChoice, nil
	case "free_text", "text":
		return QuestionFreeText, nil
	default:
		return 0, NewValidationError(fmt.Sprintf("unknown question type: %q", s))
	}
}

// AnswerValue is one cell of the answer matrix: a typed value or an
// explicit absent marker. Which field is meaningful is determined by the
// column's QuestionType, not by the value itself.
type AnswerValue struct {
	Number  float64  `json:"number,omitempty" yaml:"number,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Present bool     `json:"present" yaml:"present"`
}

// AbsentAnswer returns the explicit missing-value marker.
func AbsentAnswer() AnswerValue {
	return AnswerValue{Present: false}
}

// NumberAnswer returns a present numeric answer.
func NumberAnswer(v float64) AnswerValue {
	return AnswerValue{Number: v, Present: true}
}

// TextAnswer returns a present text answer (ordinal, single-choice, or free text).
func TextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s, Present: true}
}

// OptionsAnswer returns a present multi-choice answer.
func OptionsAnswer(options []string) AnswerValue {
	return AnswerValue{Options: options, Present: true}
}

// Absent reports whether the cell holds no value.
func (a AnswerValue) Absent() bool {
	return !a.Present
}

// OptionSet returns the selected options as a set.
func (a AnswerValue) OptionSet() map[string]bool {
	set := make(map[string]bool, len(a.Options))
	for _, o := range a.Options {
		set[o] = true
	}
	return set
}

// String returns a compact representation used by formatters.
func (a AnswerValue) String() string {
	if !a.Present {
		return "-"
	}
	if a.Options != nil {
		sorted := append([]string(nil), a.Options...)
		sort.Strings(sorted)
		return "{" + strings.Join(sorted, ",") + "}"
	}
	if a.Text != "" {
		return a.Text
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", a.Number), "0"), ".")
}

// AnswerMatrix is the rectangular answer dataset: one row per respondent,
// one column per question. Column order is load-bearing; it aligns with the
// question list for type and configuration lookup.
type AnswerMatrix [][]AnswerValue

// Rows returns the number of respondent rows.
func (m AnswerMatrix) Rows() int {
	return len(m)
}

// Columns returns the number of question columns (0 for an empty matrix).
func (m AnswerMatrix) Columns() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of the matrix. Imputation fills a working copy
// so the caller's dataset is never modified beyond what it hands over.
func (m AnswerMatrix) Clone() AnswerMatrix {
	out := make(AnswerMatrix, len(m))
	for i, row := range m {
		out[i] = make([]AnswerValue, len(row))
		for j, cell := range row {
			copied := cell
			if cell.Options != nil {
				copied.Options = append([]string(nil), cell.Options...)
			}
			out[i][j] = copied
		}
	}
	return out
}

// Validate checks that the matrix is rectangular with the given column count.
func (m AnswerMatrix) Validate(columns int) error {
	for i, row := range m {
		if len(row) != columns {
			return NewValidationError(fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), columns))
		}
	}
	return nil
}

// Question describes one survey question: its comparison type plus the
// side data the distance function needs for that type.
type Question struct {
	ID      string       `json:"id" yaml:"id"`
	Text    string       `json:"text,omitempty" yaml:"text,omitempty"`
	Type    QuestionType `json:"-" yaml:"-"`
	Min     float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max     float64      `json:"max,omitempty" yaml:"max,omitempty"`
	Options []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

// Dataset is the engine's input boundary: an ordered question list, a
// parallel respondent-ID list, and the rectangular answer matrix.
type Dataset struct {
	Questions   []Question   `json:"questions" yaml:"questions"`
	Respondents []string     `json:"respondents" yaml:"respondents"`
	Matrix      AnswerMatrix `json:"matrix" yaml:"matrix"`
}

// QuestionTypes returns the per-column type list aligned with the matrix.
func (d *Dataset) QuestionTypes() []QuestionType {
	types := make([]QuestionType, len(d.Questions))
	for i, q := range d.Questions {
		types[i] = q.Type
	}
	return types
}

// Validate checks the structural invariants of the dataset.
func (d *Dataset) Validate() error {
	if d == nil || len(d.Questions) == 0 {
		return NewValidationError("dataset has no questions")
	}
	if len(d.Respondents) != d.Matrix.Rows() {
		return NewValidationError(fmt.Sprintf("respondent count %d does not match row count %d",
			len(d.Respondents), d.Matrix.Rows()))
	}
	return d.Matrix.Validate(len(d.Questions))
}

// MissingCells counts absent cells in the matrix.
func (d *Dataset) MissingCells() int {
	count := 0
	for _, row := range d.Matrix {
		for _, cell := range row {
			if cell.Absent() {
				count++
			}
		}
	}
	return count
}
