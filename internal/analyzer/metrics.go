package analyzer

import (
	"math"

	"github.com/cohort-labs/cohort/domain"
)

// computeInertia sums the squared distance from every row to its cluster's
// representative. The value can rise transiently across K-Medoids
// iterations because the medoid search is discrete; that is expected and
// left uncorrected.
func computeInertia(matrix domain.AnswerMatrix, assignment []int, representatives [][]domain.AnswerValue, calc *DistanceCalculator) (float64, error) {
	total := 0.0
	for i, row := range matrix {
		dist, err := calc.RowDistance(row, representatives[assignment[i]])
		if err != nil {
			return 0, err
		}
		total += dist * dist
	}
	return total, nil
}

// computeSilhouette returns the mean silhouette coefficient over all rows,
// in [-1,1]. Returns 0 when n<=1 or k<=1, where the metric is undefined.
func computeSilhouette(matrix domain.AnswerMatrix, assignment []int, k int, calc *DistanceCalculator) (float64, error) {
	n := len(matrix)
	if n <= 1 || k <= 1 {
		return 0, nil
	}

	// Pairwise distances are reused n times each; materialize them once.
	distances, err := pairwiseDistances(matrix, calc)
	if err != nil {
		return 0, err
	}

	sizes := make([]int, k)
	for _, cluster := range assignment {
		sizes[cluster]++
	}

	total := 0.0
	for i := 0; i < n; i++ {
		total += silhouetteOf(i, assignment, sizes, distances, k)
	}
	return total / float64(n), nil
}

// silhouetteOf computes s(i) = (b-a)/max(a,b) for one row. Rows in
// singleton clusters score 0.
func silhouetteOf(i int, assignment []int, sizes []int, distances [][]float64, k int) float64 {
	own := assignment[i]
	if sizes[own] <= 1 {
		return 0
	}

	// a(i): mean distance to the other members of the own cluster.
	intraSum := 0.0
	for j, cluster := range assignment {
		if j != i && cluster == own {
			intraSum += distances[i][j]
		}
	}
	a := intraSum / float64(sizes[own]-1)

	// b(i): minimum mean distance to any other non-empty cluster.
	b := math.MaxFloat64
	for cluster := 0; cluster < k; cluster++ {
		if cluster == own || sizes[cluster] == 0 {
			continue
		}
		sum := 0.0
		for j, c := range assignment {
			if c == cluster {
				sum += distances[i][j]
			}
		}
		mean := sum / float64(sizes[cluster])
		if mean < b {
			b = mean
		}
	}
	if b == math.MaxFloat64 {
		return 0
	}

	denom := math.Max(a, b)
	if denom == 0 {
		return 0
	}
	return (b - a) / denom
}

// pairwiseDistances builds the symmetric n×n row distance matrix.
func pairwiseDistances(matrix domain.AnswerMatrix, calc *DistanceCalculator) ([][]float64, error) {
	n := len(matrix)
	distances := make([][]float64, n)
	for i := range distances {
		distances[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist, err := calc.RowDistance(matrix[i], matrix[j])
			if err != nil {
				return nil, err
			}
			distances[i][j] = dist
			distances[j][i] = dist
		}
	}
	return distances, nil
}
