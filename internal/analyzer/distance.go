package analyzer

import (
	"fmt"

	"github.com/cohort-labs/cohort/domain"
)

// NumericRange is the configured [Min,Max] of a numeric question column.
type NumericRange struct {
	Min float64
	Max float64
}

// DistanceCalculator computes normalized [0,1] distances between respondent
// rows of mixed-type answers. The per-column distances are averaged into a
// single scalar, so the row distance is also in [0,1]. It is a pure
// function of its inputs and the two configuration maps.
type DistanceCalculator struct {
	types   []domain.QuestionType
	ranges  map[int]NumericRange
	options map[int][]string
}

// NewDistanceCalculator creates a calculator over the given per-column
// question types and side data. Numeric columns need an entry in ranges,
// ordinal columns an entry in options; missing entries surface as
// configuration errors when that column is first compared.
func NewDistanceCalculator(types []domain.QuestionType, ranges map[int]NumericRange, options map[int][]string) *DistanceCalculator {
	return &DistanceCalculator{
		types:   types,
		ranges:  ranges,
		options: options,
	}
}

// Columns returns the number of configured columns.
func (d *DistanceCalculator) Columns() int {
	return len(d.types)
}

// Type returns the question type of the given column.
func (d *DistanceCalculator) Type(col int) domain.QuestionType {
	return d.types[col]
}

// Range returns the configured numeric range of a column.
func (d *DistanceCalculator) Range(col int) (NumericRange, bool) {
	r, ok := d.ranges[col]
	return r, ok
}

// OrdinalOptions returns the configured ordinal ordering of a column.
func (d *DistanceCalculator) OrdinalOptions(col int) []string {
	return d.options[col]
}

// Validate checks that every referenced column has the side data its type
// requires. Strategies call this before iterating so that configuration
// errors surface exactly once, before any assignment happens.
func (d *DistanceCalculator) Validate() error {
	for col, qt := range d.types {
		switch qt {
		case domain.QuestionNumeric:
			if _, ok := d.ranges[col]; !ok {
				return domain.NewConfigError(fmt.Sprintf("numeric range not configured for column %d", col), nil)
			}
		case domain.QuestionOrdinal:
			opts, ok := d.options[col]
			if !ok {
				return domain.NewConfigError(fmt.Sprintf("ordinal options not configured for column %d", col), nil)
			}
			// A single option would divide by zero in the position
			// normalization; reject it instead of producing NaN.
			if len(opts) < 2 {
				return domain.NewConfigError(fmt.Sprintf("ordinal column %d needs at least 2 options, got %d", col, len(opts)), nil)
			}
		}
	}
	return nil
}

// RowDistance returns the arithmetic mean of the per-column distances
// between two rows. Both rows must be fully present; imputation guarantees
// that before any strategy runs.
func (d *DistanceCalculator) RowDistance(a, b []domain.AnswerValue) (float64, error) {
	if len(a) != len(d.types) || len(b) != len(d.types) {
		return 0, domain.NewInvalidInputError(fmt.Sprintf(
			"row length mismatch: %d and %d, expected %d", len(a), len(b), len(d.types)), nil)
	}
	sum := 0.0
	for col := range d.types {
		dist, err := d.ColumnDistance(col, a[col], b[col])
		if err != nil {
			return 0, err
		}
		sum += dist
	}
	return sum / float64(len(d.types)), nil
}

// PartialRowDistance averages the per-column distances over the columns for
// which include returns true. The second return is false when no column was
// comparable, which the imputer treats as an infinite distance.
func (d *DistanceCalculator) PartialRowDistance(a, b []domain.AnswerValue, include func(col int) bool) (float64, bool, error) {
	sum := 0.0
	compared := 0
	for col := range d.types {
		if !include(col) {
			continue
		}
		dist, err := d.ColumnDistance(col, a[col], b[col])
		if err != nil {
			return 0, false, err
		}
		sum += dist
		compared++
	}
	if compared == 0 {
		return 0, false, nil
	}
	return sum / float64(compared), true, nil
}

// ColumnDistance returns the normalized distance between two present cells
// of the given column.
func (d *DistanceCalculator) ColumnDistance(col int, a, b domain.AnswerValue) (float64, error) {
	switch d.types[col] {
	case domain.QuestionNumeric:
		return d.numericDistance(col, a, b)
	case domain.QuestionOrdinal:
		return d.ordinalDistance(col, a, b)
	case domain.QuestionSingleChoice:
		if a.Text == b.Text {
			return 0, nil
		}
		return 1, nil
	case domain.QuestionMultiChoice:
		return jaccardDistance(a.Options, b.Options), nil
	case domain.QuestionFreeText:
		return textDistance(a.Text, b.Text), nil
	default:
		return 0, domain.NewConfigError(fmt.Sprintf("unknown question type for column %d", col), nil)
	}
}

// numericDistance is |a-b|/(max-min), or 0 for a degenerate range.
func (d *DistanceCalculator) numericDistance(col int, a, b domain.AnswerValue) (float64, error) {
	r, ok := d.ranges[col]
	if !ok {
		return 0, domain.NewConfigError(fmt.Sprintf("numeric range not configured for column %d", col), nil)
	}
	span := r.Max - r.Min
	if span == 0 {
		return 0, nil
	}
	diff := a.Number - b.Number
	if diff < 0 {
		diff = -diff
	}
	return diff / span, nil
}

// ordinalDistance is |posA-posB|/(numOptions-1), position being the index
// in the configured ordering.
func (d *DistanceCalculator) ordinalDistance(col int, a, b domain.AnswerValue) (float64, error) {
	opts, ok := d.options[col]
	if !ok {
		return 0, domain.NewConfigError(fmt.Sprintf("ordinal options not configured for column %d", col), nil)
	}
	if len(opts) < 2 {
		return 0, domain.NewConfigError(fmt.Sprintf("ordinal column %d needs at least 2 options", col), nil)
	}
	posA, err := ordinalPosition(opts, a.Text, col)
	if err != nil {
		return 0, err
	}
	posB, err := ordinalPosition(opts, b.Text, col)
	if err != nil {
		return 0, err
	}
	diff := posA - posB
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(len(opts)-1), nil
}

func ordinalPosition(options []string, value string, col int) (int, error) {
	for i, o := range options {
		if o == value {
			return i, nil
		}
	}
	return 0, domain.NewConfigError(fmt.Sprintf("value %q not among ordinal options of column %d", value, col), nil)
}

// jaccardDistance is 1 - |A∩B|/|A∪B| over two option sets, 0 when both
// sets are empty.
func jaccardDistance(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, o := range a {
		setA[o] = true
	}
	setB := make(map[string]bool, len(b))
	for _, o := range b {
		setB[o] = true
	}
	intersection := 0
	union := len(setB)
	for o := range setA {
		if setB[o] {
			intersection++
		} else {
			union++
		}
	}
	return 1 - float64(intersection)/float64(union)
}

// textDistance is a length-discounted normalized edit distance: the raw
// Levenshtein cost minus the unavoidable length difference, over the
// remaining comparable span. Strings differing mainly in length score
// closer than raw edit distance would suggest.
func textDistance(a, b string) float64 {
	lev := levenshteinDistance(a, b)
	lenDiff := len(a) - len(b)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	denominator := maxLen - lenDiff
	if denominator == 0 {
		return 0
	}
	return float64(lev-lenDiff) / float64(denominator)
}

// levenshteinDistance computes the edit distance between two strings.
// Uses dynamic programming with O(min(m,n)) space.
func levenshteinDistance(s1, s2 string) int {
	// Ensure s1 is the shorter string for space optimization
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	m := len(s1)
	n := len(s2)

	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)

	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	for j := 1; j <= n; j++ {
		curr[0] = j
		for i := 1; i <= m; i++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// min3 returns the minimum of three integers
func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
