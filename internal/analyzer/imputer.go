package analyzer

import (
	"sort"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/constants"
)

// Imputer fills absent cells of an answer matrix with values synthesized
// from the nearest complete rows, so that no absent cell ever reaches the
// distance function during clustering.
type Imputer struct {
	calc      *DistanceCalculator
	neighbors int
}

// NewImputer creates an imputer driven by the given distance calculator.
func NewImputer(calc *DistanceCalculator) *Imputer {
	return &Imputer{
		calc:      calc,
		neighbors: constants.ImputationNeighbors,
	}
}

// neighborCandidate is a row that can donate a value for one missing cell.
type neighborCandidate struct {
	row      int
	distance float64
}

// Impute fills every absent cell of the matrix in place and returns the
// number of cells filled. Cells are processed in row-major order, so a fill
// is visible to the neighbor search of later cells.
func (im *Imputer) Impute(matrix domain.AnswerMatrix) (int, error) {
	if err := im.calc.Validate(); err != nil {
		return 0, err
	}
	filled := 0
	for i := range matrix {
		for p := range matrix[i] {
			if !matrix[i][p].Absent() {
				continue
			}
			value, err := im.imputeCell(matrix, i, p)
			if err != nil {
				return filled, err
			}
			matrix[i][p] = value
			filled++
		}
	}
	return filled, nil
}

// imputeCell synthesizes a value for the absent cell at (row, col).
func (im *Imputer) imputeCell(matrix domain.AnswerMatrix, row, col int) (domain.AnswerValue, error) {
	candidates, err := im.collectCandidates(matrix, row, col)
	if err != nil {
		return domain.AnswerValue{}, err
	}
	if len(candidates) == 0 {
		return im.defaultValue(col), nil
	}

	// Nearest first; row order breaks distance ties deterministically.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].distance < candidates[b].distance
	})
	if len(candidates) > im.neighbors {
		candidates = candidates[:im.neighbors]
	}

	switch im.calc.Type(col) {
	case domain.QuestionNumeric:
		return im.weightedNumericFill(matrix, candidates, col), nil
	case domain.QuestionMultiChoice:
		return im.majorityOptionsFill(matrix, candidates, col), nil
	default:
		return im.majorityValueFill(matrix, candidates, col), nil
	}
}

// collectCandidates gathers every other row with a present value at col,
// scored by the partial distance over mutually present columns (excluding
// col itself). Rows sharing no comparable column are excluded outright.
func (im *Imputer) collectCandidates(matrix domain.AnswerMatrix, row, col int) ([]neighborCandidate, error) {
	var candidates []neighborCandidate
	target := matrix[row]
	for j := range matrix {
		if j == row || matrix[j][col].Absent() {
			continue
		}
		other := matrix[j]
		dist, ok, err := im.calc.PartialRowDistance(target, other, func(c int) bool {
			return c != col && !target[c].Absent() && !other[c].Absent()
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		candidates = append(candidates, neighborCandidate{row: j, distance: dist})
	}
	return candidates, nil
}

// weightedNumericFill averages the neighbor values weighted by inverse
// distance, so closer rows dominate the fill.
func (im *Imputer) weightedNumericFill(matrix domain.AnswerMatrix, neighbors []neighborCandidate, col int) domain.AnswerValue {
	weightSum := 0.0
	valueSum := 0.0
	for _, n := range neighbors {
		weight := 1.0 / (n.distance + constants.ImputationEpsilon)
		weightSum += weight
		valueSum += weight * matrix[n.row][col].Number
	}
	return domain.NumberAnswer(valueSum / weightSum)
}

// majorityValueFill picks the most frequent neighbor value. Ties go to the
// value seen first among the neighbors.
func (im *Imputer) majorityValueFill(matrix domain.AnswerMatrix, neighbors []neighborCandidate, col int) domain.AnswerValue {
	counts := make(map[string]int, len(neighbors))
	var order []string
	for _, n := range neighbors {
		v := matrix[n.row][col].Text
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return domain.TextAnswer(best)
}

// majorityOptionsFill unions the options selected by more than half of the
// neighbors.
func (im *Imputer) majorityOptionsFill(matrix domain.AnswerMatrix, neighbors []neighborCandidate, col int) domain.AnswerValue {
	counts := make(map[string]int)
	var order []string
	for _, n := range neighbors {
		for _, o := range matrix[n.row][col].Options {
			if _, seen := counts[o]; !seen {
				order = append(order, o)
			}
			counts[o]++
		}
	}
	selected := []string{}
	for _, o := range order {
		if counts[o]*2 > len(neighbors) {
			selected = append(selected, o)
		}
	}
	return domain.OptionsAnswer(selected)
}

// defaultValue is the deterministic fallback when every other row is also
// missing the column.
func (im *Imputer) defaultValue(col int) domain.AnswerValue {
	switch im.calc.Type(col) {
	case domain.QuestionNumeric:
		r, _ := im.calc.Range(col)
		return domain.NumberAnswer((r.Min + r.Max) / 2)
	case domain.QuestionOrdinal:
		opts := im.calc.OrdinalOptions(col)
		return domain.TextAnswer(opts[len(opts)/2])
	case domain.QuestionMultiChoice:
		return domain.OptionsAnswer([]string{})
	default:
		return domain.TextAnswer("")
	}
}
