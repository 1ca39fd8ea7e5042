// Package constants defines the shared numeric defaults of the clustering
// engine. Keeping them in one place makes the imputation and distance
// behavior auditable without digging through the algorithms.
package constants

const (
	// ImputationNeighbors is the number of nearest complete rows consulted
	// when filling a missing cell. Five neighbors keeps the majority votes
	// meaningful for categorical columns while staying cheap for small
	// survey datasets.
	ImputationNeighbors = 5

	// ImputationEpsilon stabilizes the inverse-distance weights used for
	// numeric imputation: weight = 1/(distance+epsilon). Without it a
	// zero-distance neighbor would divide by zero.
	ImputationEpsilon = 1e-4

	// DistanceComparisonEpsilon is the tolerance used when deciding whether
	// two representatives are equal across iterations. Mean recomputation
	// accumulates float error, so exact comparison would defeat the
	// convergence check.
	DistanceComparisonEpsilon = 1e-9
)
