package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

func numericCalc(min, max float64) *DistanceCalculator {
	return NewDistanceCalculator(
		[]domain.QuestionType{domain.QuestionNumeric},
		map[int]NumericRange{0: {Min: min, Max: max}},
		nil,
	)
}

func TestNumericDistance(t *testing.T) {
	calc := numericCalc(0, 10)

	d, err := calc.ColumnDistance(0, domain.NumberAnswer(2), domain.NumberAnswer(7))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-9)

	// Degenerate range collapses to zero distance
	flat := numericCalc(5, 5)
	d, err = flat.ColumnDistance(0, domain.NumberAnswer(5), domain.NumberAnswer(5))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestNumericDistanceMissingRange(t *testing.T) {
	calc := NewDistanceCalculator([]domain.QuestionType{domain.QuestionNumeric}, map[int]NumericRange{}, nil)
	_, err := calc.ColumnDistance(0, domain.NumberAnswer(1), domain.NumberAnswer(2))
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestOrdinalDistance(t *testing.T) {
	calc := NewDistanceCalculator(
		[]domain.QuestionType{domain.QuestionOrdinal},
		nil,
		map[int][]string{0: {"never", "rarely", "sometimes", "often", "always"}},
	)

	d, err := calc.ColumnDistance(0, domain.TextAnswer("never"), domain.TextAnswer("always"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)

	d, err = calc.ColumnDistance(0, domain.TextAnswer("rarely"), domain.TextAnswer("sometimes"))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, d, 1e-9)
}

func TestOrdinalSingleOptionIsConfigError(t *testing.T) {
	calc := NewDistanceCalculator(
		[]domain.QuestionType{domain.QuestionOrdinal},
		nil,
		map[int][]string{0: {"only"}},
	)
	err := calc.Validate()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestSingleChoiceDistance(t *testing.T) {
	calc := NewDistanceCalculator([]domain.QuestionType{domain.QuestionSingleChoice}, nil, nil)

	// Identical answers must be exactly zero
	d, err := calc.ColumnDistance(0, domain.TextAnswer("red"), domain.TextAnswer("red"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	d, err = calc.ColumnDistance(0, domain.TextAnswer("red"), domain.TextAnswer("blue"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)
}

func TestMultiChoiceJaccard(t *testing.T) {
	calc := NewDistanceCalculator([]domain.QuestionType{domain.QuestionMultiChoice}, nil, nil)

	// {x,y} vs {y,z}: intersection 1, union 3
	d, err := calc.ColumnDistance(0,
		domain.OptionsAnswer([]string{"x", "y"}),
		domain.OptionsAnswer([]string{"y", "z"}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0-1.0/3.0, d, 1e-9)

	// Two empty selections are identical
	d, err = calc.ColumnDistance(0, domain.OptionsAnswer(nil), domain.OptionsAnswer(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestFreeTextDistance(t *testing.T) {
	calc := NewDistanceCalculator([]domain.QuestionType{domain.QuestionFreeText}, nil, nil)

	// lev("cat","cats")=1 is pure length difference, so the discounted
	// distance is zero
	d, err := calc.ColumnDistance(0, domain.TextAnswer("cat"), domain.TextAnswer("cats"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	d, err = calc.ColumnDistance(0, domain.TextAnswer("cat"), domain.TextAnswer("dog"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)

	// Both empty: denominator is zero
	d, err = calc.ColumnDistance(0, domain.TextAnswer(""), domain.TextAnswer(""))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"cat", "cats", 1},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := levenshteinDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshteinDistance(%q,%q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRowDistanceSymmetryAndBounds(t *testing.T) {
	types := []domain.QuestionType{
		domain.QuestionNumeric,
		domain.QuestionOrdinal,
		domain.QuestionSingleChoice,
		domain.QuestionMultiChoice,
		domain.QuestionFreeText,
	}
	calc := NewDistanceCalculator(types,
		map[int]NumericRange{0: {Min: 0, Max: 100}},
		map[int][]string{1: {"low", "mid", "high"}},
	)

	rows := domain.AnswerMatrix{
		{domain.NumberAnswer(10), domain.TextAnswer("low"), domain.TextAnswer("a"), domain.OptionsAnswer([]string{"x"}), domain.TextAnswer("hello")},
		{domain.NumberAnswer(90), domain.TextAnswer("high"), domain.TextAnswer("b"), domain.OptionsAnswer([]string{"y", "z"}), domain.TextAnswer("world")},
		{domain.NumberAnswer(55), domain.TextAnswer("mid"), domain.TextAnswer("a"), domain.OptionsAnswer(nil), domain.TextAnswer("")},
	}

	for i := range rows {
		for j := range rows {
			dij, err := calc.RowDistance(rows[i], rows[j])
			require.NoError(t, err)
			dji, err := calc.RowDistance(rows[j], rows[i])
			require.NoError(t, err)
			assert.Equal(t, dij, dji, "distance must be symmetric")
			assert.GreaterOrEqual(t, dij, 0.0)
			assert.LessOrEqual(t, dij, 1.0)
			if i == j {
				assert.Equal(t, 0.0, dij)
			}
		}
	}
}

func TestPartialRowDistance(t *testing.T) {
	calc := NewDistanceCalculator(
		[]domain.QuestionType{domain.QuestionNumeric, domain.QuestionNumeric},
		map[int]NumericRange{0: {Min: 0, Max: 10}, 1: {Min: 0, Max: 10}},
		nil,
	)
	a := []domain.AnswerValue{domain.NumberAnswer(0), domain.NumberAnswer(0)}
	b := []domain.AnswerValue{domain.NumberAnswer(10), domain.NumberAnswer(5)}

	d, ok, err := calc.PartialRowDistance(a, b, func(col int) bool { return col == 1 })
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, d, 1e-9)

	_, ok, err = calc.PartialRowDistance(a, b, func(col int) bool { return false })
	require.NoError(t, err)
	assert.False(t, ok, "no comparable columns should report not-ok")
}
