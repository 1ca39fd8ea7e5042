package analyzer

import (
	"math"

	"github.com/cohort-labs/cohort/domain"
)

// KMedoids clusters rows around medoids: representatives that are actual
// dataset rows. This keeps the distance function the only operation the
// algorithm needs, with no notion of a "mean" for categorical or text
// columns. The medoid search is exact and quadratic in cluster size, which
// is acceptable because survey clusters stay small relative to n.
type KMedoids struct {
	strategyConfig
}

// NewKMedoids creates a K-Medoids strategy with D² weighted seeding.
func NewKMedoids(k, maxIter int) *KMedoids {
	return &KMedoids{strategyConfig: newStrategyConfig(k, maxIter)}
}

// Name returns the algorithm label recorded in results
func (kmd *KMedoids) Name() domain.Algorithm {
	return domain.AlgorithmKMedoids
}

// Execute runs K-Medoids to convergence or maxIter.
func (kmd *KMedoids) Execute(matrix domain.AnswerMatrix) (*domain.ClusteringResult, error) {
	calc := kmd.calculator()
	if err := kmd.validate(matrix, calc); err != nil {
		return nil, err
	}

	medoids, err := seedSpreadRows(matrix, kmd.k, calc, kmd.rng)
	if err != nil {
		return nil, err
	}

	var assignment []int
	iterations := 0
	for iter := 0; iter < kmd.maxIter; iter++ {
		iterations = iter + 1

		newAssignment, err := kmd.assignToMedoids(matrix, medoids, calc)
		if err != nil {
			return nil, err
		}
		newMedoids, err := kmd.updateMedoids(matrix, newAssignment, medoids, calc)
		if err != nil {
			return nil, err
		}

		converged := assignment != nil &&
			assignmentsEqual(assignment, newAssignment) &&
			medoidsEqual(medoids, newMedoids)

		assignment = newAssignment
		medoids = newMedoids
		if converged {
			break
		}
	}

	representatives := make([][]domain.AnswerValue, kmd.k)
	for i, m := range medoids {
		representatives[i] = copyRow(matrix[m])
	}

	inertia, err := computeInertia(matrix, assignment, representatives, calc)
	if err != nil {
		return nil, err
	}
	silhouette, err := computeSilhouette(matrix, assignment, kmd.k, calc)
	if err != nil {
		return nil, err
	}

	return &domain.ClusteringResult{
		Assignment:      assignment,
		Representatives: representatives,
		Silhouette:      silhouette,
		Inertia:         inertia,
		Algorithm:       kmd.Name(),
		K:               kmd.k,
		Iterations:      iterations,
	}, nil
}

// assignToMedoids maps every row to its nearest medoid, lowest medoid
// index winning ties.
func (kmd *KMedoids) assignToMedoids(matrix domain.AnswerMatrix, medoids []int, calc *DistanceCalculator) ([]int, error) {
	assignment := make([]int, len(matrix))
	for i, row := range matrix {
		best := 0
		bestDist := math.MaxFloat64
		for m, medoidRow := range medoids {
			dist, err := calc.RowDistance(row, matrix[medoidRow])
			if err != nil {
				return nil, err
			}
			if dist < bestDist {
				bestDist = dist
				best = m
			}
		}
		assignment[i] = best
	}
	return assignment, nil
}

// updateMedoids evaluates every member of each cluster as a medoid
// candidate and keeps the one minimizing the sum of distances to its
// co-members. A cluster left empty gets a fresh medoid: a uniformly random
// row not already used as a medoid.
func (kmd *KMedoids) updateMedoids(matrix domain.AnswerMatrix, assignment []int, current []int, calc *DistanceCalculator) ([]int, error) {
	members := make([][]int, kmd.k)
	for row, cluster := range assignment {
		members[cluster] = append(members[cluster], row)
	}

	updated := make([]int, kmd.k)
	copy(updated, current)

	for cluster := range updated {
		if len(members[cluster]) == 0 {
			fresh, err := kmd.freshMedoid(len(matrix), updated)
			if err != nil {
				return nil, err
			}
			updated[cluster] = fresh
			continue
		}
		best := members[cluster][0]
		bestCost := math.MaxFloat64
		for _, candidate := range members[cluster] {
			cost := 0.0
			for _, other := range members[cluster] {
				if other == candidate {
					continue
				}
				dist, err := calc.RowDistance(matrix[candidate], matrix[other])
				if err != nil {
					return nil, err
				}
				cost += dist
			}
			if cost < bestCost {
				bestCost = cost
				best = candidate
			}
		}
		updated[cluster] = best
	}
	return updated, nil
}

// freshMedoid picks a uniformly random row not currently serving as a
// medoid.
func (kmd *KMedoids) freshMedoid(rows int, medoids []int) (int, error) {
	used := make(map[int]bool, len(medoids))
	for _, m := range medoids {
		used[m] = true
	}
	available := make([]int, 0, rows-len(used))
	for i := 0; i < rows; i++ {
		if !used[i] {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		// k == n with every row a medoid already; reuse an arbitrary row.
		return kmd.rng.Intn(rows), nil
	}
	return available[kmd.rng.Intn(len(available))], nil
}

func medoidsEqual(a, b []int) bool {
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
