package analyzer

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/constants"
)

// ClusteringStrategy is the common surface of the three clustering
// algorithms. Configuration calls must precede Execute; during Execute the
// configuration is treated as immutable.
type ClusteringStrategy interface {
	// Name returns the algorithm label recorded in results
	Name() domain.Algorithm

	// SetQuestionTypes sets the per-column question types
	SetQuestionTypes(types []domain.QuestionType)

	// SetNumericRange configures the [min,max] range of a numeric column
	SetNumericRange(col int, min, max float64)

	// SetOrdinalOptions configures the ordered option list of an ordinal column
	SetOrdinalOptions(col int, options []string)

	// SetSeed reseeds the strategy's private random source. Two executions
	// with the same seed, input, and k produce identical results.
	SetSeed(seed int64)

	// Execute runs the algorithm to convergence (or maxIter) and returns
	// the read-only result
	Execute(matrix domain.AnswerMatrix) (*domain.ClusteringResult, error)
}

// CreateStrategy creates a strategy for the given algorithm.
func CreateStrategy(algorithm domain.Algorithm, k, maxIter int) (ClusteringStrategy, error) {
	switch algorithm {
	case domain.AlgorithmKMeans:
		return NewKMeans(k, maxIter), nil
	case domain.AlgorithmKMeansPP:
		return NewKMeansPP(k, maxIter), nil
	case domain.AlgorithmKMedoids:
		return NewKMedoids(k, maxIter), nil
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("unknown algorithm: %q", algorithm), nil)
	}
}

// strategyConfig holds the mutable-before-execute state shared by all
// strategies. Each strategy instance owns its own maps and RNG, so
// independent instances are safe to run concurrently.
type strategyConfig struct {
	k       int
	maxIter int
	types   []domain.QuestionType
	ranges  map[int]NumericRange
	options map[int][]string
	rng     *rand.Rand
}

func newStrategyConfig(k, maxIter int) strategyConfig {
	return strategyConfig{
		k:       k,
		maxIter: maxIter,
		ranges:  make(map[int]NumericRange),
		options: make(map[int][]string),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *strategyConfig) SetQuestionTypes(types []domain.QuestionType) {
	c.types = types
}

func (c *strategyConfig) SetNumericRange(col int, min, max float64) {
	c.ranges[col] = NumericRange{Min: min, Max: max}
}

func (c *strategyConfig) SetOrdinalOptions(col int, options []string) {
	c.options[col] = append([]string(nil), options...)
}

func (c *strategyConfig) SetSeed(seed int64) {
	c.rng = rand.New(rand.NewSource(seed))
}

// calculator builds the distance calculator over the current configuration.
func (c *strategyConfig) calculator() *DistanceCalculator {
	return NewDistanceCalculator(c.types, c.ranges, c.options)
}

// validate enforces the execute preconditions: non-empty matrix, sane k,
// and complete per-column configuration. All failures surface here, before
// any iteration begins.
func (c *strategyConfig) validate(matrix domain.AnswerMatrix, calc *DistanceCalculator) error {
	if matrix.Rows() == 0 {
		return domain.NewConfigError("dataset is empty", nil)
	}
	if len(c.types) == 0 {
		return domain.NewConfigError("question types not configured", nil)
	}
	if err := matrix.Validate(len(c.types)); err != nil {
		return err
	}
	if c.k < 1 || c.k > matrix.Rows() {
		return domain.NewConfigError(fmt.Sprintf("k must be in [1,%d], got %d", matrix.Rows(), c.k), nil)
	}
	if c.maxIter < 1 {
		return domain.NewConfigError(fmt.Sprintf("maxIter must be >= 1, got %d", c.maxIter), nil)
	}
	for i, row := range matrix {
		for p, cell := range row {
			if cell.Absent() {
				return domain.NewConfigError(fmt.Sprintf("absent cell at row %d column %d; impute before clustering", i, p), nil)
			}
		}
	}
	return calc.Validate()
}

// assignRows maps every row to the index of its nearest representative.
// Equidistant representatives resolve to the lowest index, keeping the
// assignment deterministic under a fixed seed.
func assignRows(matrix domain.AnswerMatrix, representatives [][]domain.AnswerValue, calc *DistanceCalculator) ([]int, error) {
	assignment := make([]int, len(matrix))
	for i, row := range matrix {
		best := 0
		bestDist := math.MaxFloat64
		for r, rep := range representatives {
			dist, err := calc.RowDistance(row, rep)
			if err != nil {
				return nil, err
			}
			if dist < bestDist {
				bestDist = dist
				best = r
			}
		}
		assignment[i] = best
	}
	return assignment, nil
}

// assignmentsEqual reports whether two assignments are identical.
func assignmentsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// representativesEqual compares two representative sets column by column,
// tolerating float noise in numeric means.
func representativesEqual(a, b [][]domain.AnswerValue, types []domain.QuestionType) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		for col, qt := range types {
			if !answersEqual(qt, a[r][col], b[r][col]) {
				return false
			}
		}
	}
	return true
}

func answersEqual(qt domain.QuestionType, a, b domain.AnswerValue) bool {
	switch qt {
	case domain.QuestionNumeric:
		diff := a.Number - b.Number
		if diff < 0 {
			diff = -diff
		}
		return diff <= constants.DistanceComparisonEpsilon
	case domain.QuestionMultiChoice:
		if len(a.Options) != len(b.Options) {
			return false
		}
		set := a.OptionSet()
		for _, o := range b.Options {
			if !set[o] {
				return false
			}
		}
		return true
	default:
		return a.Text == b.Text
	}
}

// seedSpreadRows picks k distinct row indices with D² weighted sampling:
// first uniform, then each subsequent pick proportional to the squared
// distance to the nearest already-picked row. Used by K-Means++ seeding
// and K-Medoids initialization alike.
func seedSpreadRows(matrix domain.AnswerMatrix, k int, calc *DistanceCalculator, rng *rand.Rand) ([]int, error) {
	n := len(matrix)
	chosen := make([]int, 0, k)
	chosen = append(chosen, rng.Intn(n))
	selected := make([]bool, n)
	selected[chosen[0]] = true

	// Squared distance to the nearest chosen row, maintained incrementally.
	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.MaxFloat64
	}

	for len(chosen) < k {
		last := chosen[len(chosen)-1]
		total := 0.0
		for i := 0; i < n; i++ {
			if selected[i] {
				nearest[i] = 0
				continue
			}
			dist, err := calc.RowDistance(matrix[i], matrix[last])
			if err != nil {
				return nil, err
			}
			sq := dist * dist
			if sq < nearest[i] {
				nearest[i] = sq
			}
			total += nearest[i]
		}

		next := -1
		if total == 0 {
			// Every unselected row coincides with a chosen one; fall back
			// to a uniform pick among the unselected.
			remaining := make([]int, 0, n-len(chosen))
			for i := 0; i < n; i++ {
				if !selected[i] {
					remaining = append(remaining, i)
				}
			}
			next = remaining[rng.Intn(len(remaining))]
		} else {
			target := rng.Float64() * total
			cumulative := 0.0
			for i := 0; i < n; i++ {
				if selected[i] {
					continue
				}
				cumulative += nearest[i]
				if cumulative >= target {
					next = i
					break
				}
			}
			if next < 0 {
				// Float round-off exhausted the scan; take the last unselected row.
				for i := n - 1; i >= 0; i-- {
					if !selected[i] {
						next = i
						break
					}
				}
			}
		}
		chosen = append(chosen, next)
		selected[next] = true
	}
	return chosen, nil
}

// copyRow deep-copies one row so representative mutation never aliases the
// dataset.
func copyRow(row []domain.AnswerValue) []domain.AnswerValue {
	out := make([]domain.AnswerValue, len(row))
	for i, cell := range row {
		copied := cell
		if cell.Options != nil {
			copied.Options = append([]string(nil), cell.Options...)
		}
		out[i] = copied
	}
	return out
}
