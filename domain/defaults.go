package domain

// Clustering defaults. The iteration cap and neighbor count follow the
// usual survey-analysis practice of small k over modest n; silhouette
// interpretation bands follow Kaufman & Rousseeuw.
//
// References:
// - Rousseeuw, P. J. (1987). Silhouettes: a graphical aid to the
//   interpretation and validation of cluster analysis
// - Arthur, D., & Vassilvitskii, S. (2007). k-means++: The advantages of
//   careful seeding
const (
	// DefaultMaxIterations bounds a single strategy execution. Convergence
	// (no assignment and no representative change) usually stops far earlier.
	DefaultMaxIterations = 50

	// DefaultK is the cluster count used when no k or k range is requested.
	DefaultK = 3

	// DefaultKMin / DefaultKMax bound the best-of-K sweep.
	DefaultKMin = 2
	DefaultKMax = 8
)

// SilhouetteBands provides human-readable interpretation bounds for the
// mean silhouette coefficient.
var SilhouetteBands = []struct {
	Min   float64
	Label string
}{
	{0.71, "strong structure"},
	{0.51, "reasonable structure"},
	{0.26, "weak structure"},
	{-1.0, "no substantial structure"},
}

// InterpretSilhouette returns the interpretation band for a score.
func InterpretSilhouette(score float64) string {
	for _, band := range SilhouetteBands {
		if score >= band.Min {
			return band.Label
		}
	}
	return "no substantial structure"
}

// DefaultClusterRequest returns a default clustering request
func DefaultClusterRequest() *ClusterRequest {
	return &ClusterRequest{
		Paths:           []string{"."},
		IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
		Algorithm:       AlgorithmKMedoids,
		K:               DefaultK,
		KMin:            DefaultKMin,
		KMax:            DefaultKMax,
		MaxIter:         DefaultMaxIterations,
		OutputFormat:    OutputFormatText,
		ShowAssignments: true,
	}
}
