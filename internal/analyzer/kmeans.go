package analyzer

import (
	"github.com/cohort-labs/cohort/domain"
)

// KMeans clusters rows around synthesized representatives: per-column
// means for numeric questions and modes (or max-frequency option sets) for
// the categorical and text types. The ++ variant shares the whole
// iteration; it differs only in how the initial representatives spread.
type KMeans struct {
	strategyConfig
	plusPlus bool
}

// NewKMeans creates a K-Means strategy with uniform random initialization.
func NewKMeans(k, maxIter int) *KMeans {
	return &KMeans{strategyConfig: newStrategyConfig(k, maxIter)}
}

// NewKMeansPP creates a K-Means strategy with D² weighted seeding, which
// spreads the initial representatives apart and reduces sensitivity to
// unlucky random picks.
func NewKMeansPP(k, maxIter int) *KMeans {
	return &KMeans{strategyConfig: newStrategyConfig(k, maxIter), plusPlus: true}
}

// Name returns the algorithm label recorded in results
func (km *KMeans) Name() domain.Algorithm {
	if km.plusPlus {
		return domain.AlgorithmKMeansPP
	}
	return domain.AlgorithmKMeans
}

// Execute runs K-Means to convergence or maxIter.
func (km *KMeans) Execute(matrix domain.AnswerMatrix) (*domain.ClusteringResult, error) {
	calc := km.calculator()
	if err := km.validate(matrix, calc); err != nil {
		return nil, err
	}

	representatives, err := km.initialRepresentatives(matrix, calc)
	if err != nil {
		return nil, err
	}

	var assignment []int
	iterations := 0
	for iter := 0; iter < km.maxIter; iter++ {
		iterations = iter + 1

		newAssignment, err := assignRows(matrix, representatives, calc)
		if err != nil {
			return nil, err
		}
		newRepresentatives := km.rebuildRepresentatives(matrix, newAssignment)

		converged := assignment != nil &&
			assignmentsEqual(assignment, newAssignment) &&
			representativesEqual(representatives, newRepresentatives, km.types)

		assignment = newAssignment
		representatives = newRepresentatives
		if converged {
			break
		}
	}

	inertia, err := computeInertia(matrix, assignment, representatives, calc)
	if err != nil {
		return nil, err
	}
	silhouette, err := computeSilhouette(matrix, assignment, km.k, calc)
	if err != nil {
		return nil, err
	}

	return &domain.ClusteringResult{
		Assignment:      assignment,
		Representatives: representatives,
		Silhouette:      silhouette,
		Inertia:         inertia,
		Algorithm:       km.Name(),
		K:               km.k,
		Iterations:      iterations,
	}, nil
}

// initialRepresentatives picks k starting representatives: distinct rows
// chosen uniformly without replacement, or D² spread for the ++ variant.
func (km *KMeans) initialRepresentatives(matrix domain.AnswerMatrix, calc *DistanceCalculator) ([][]domain.AnswerValue, error) {
	var rows []int
	if km.plusPlus {
		spread, err := seedSpreadRows(matrix, km.k, calc, km.rng)
		if err != nil {
			return nil, err
		}
		rows = spread
	} else {
		rows = km.rng.Perm(len(matrix))[:km.k]
	}
	representatives := make([][]domain.AnswerValue, km.k)
	for i, row := range rows {
		representatives[i] = copyRow(matrix[row])
	}
	return representatives, nil
}

// rebuildRepresentatives synthesizes one representative per cluster from
// the current assignment. A cluster left empty by the assignment step is
// reseeded from a uniformly random dataset row, which forces a
// redistribution next iteration; the fresh pick may coincide with another
// representative.
func (km *KMeans) rebuildRepresentatives(matrix domain.AnswerMatrix, assignment []int) [][]domain.AnswerValue {
	members := make([][]int, km.k)
	for row, cluster := range assignment {
		members[cluster] = append(members[cluster], row)
	}

	representatives := make([][]domain.AnswerValue, km.k)
	for cluster := range representatives {
		if len(members[cluster]) == 0 {
			representatives[cluster] = copyRow(matrix[km.rng.Intn(len(matrix))])
			continue
		}
		representatives[cluster] = km.synthesizeRow(matrix, members[cluster])
	}
	return representatives
}

// synthesizeRow builds the mean/mode row of the given members.
func (km *KMeans) synthesizeRow(matrix domain.AnswerMatrix, members []int) []domain.AnswerValue {
	row := make([]domain.AnswerValue, len(km.types))
	for col, qt := range km.types {
		switch qt {
		case domain.QuestionNumeric:
			sum := 0.0
			for _, m := range members {
				sum += matrix[m][col].Number
			}
			row[col] = domain.NumberAnswer(sum / float64(len(members)))
		case domain.QuestionMultiChoice:
			row[col] = domain.OptionsAnswer(topFrequencyOptions(matrix, members, col))
		default:
			row[col] = domain.TextAnswer(modeValue(matrix, members, col))
		}
	}
	return row
}

// modeValue returns the most frequent text value among the members, ties
// resolved to the value seen first in the frequency scan.
func modeValue(matrix domain.AnswerMatrix, members []int, col int) string {
	counts := make(map[string]int, len(members))
	var order []string
	for _, m := range members {
		v := matrix[m][col].Text
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
	return best
}

// topFrequencyOptions returns every option whose frequency among the
// members equals the maximum observed frequency. Ties therefore produce a
// multi-option representative set.
func topFrequencyOptions(matrix domain.AnswerMatrix, members []int, col int) []string {
	counts := make(map[string]int)
	var order []string
	for _, m := range members {
		for _, o := range matrix[m][col].Options {
			if _, seen := counts[o]; !seen {
				order = append(order, o)
			}
			counts[o]++
		}
	}
	if len(order) == 0 {
		return []string{}
	}
	maxCount := 0
	for _, o := range order {
		if counts[o] > maxCount {
			maxCount = counts[o]
		}
	}
	top := make([]string, 0, len(order))
	for _, o := range order {
		if counts[o] == maxCount {
			top = append(top, o)
		}
	}
	return top
}
