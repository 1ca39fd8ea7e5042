package domain

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Algorithm identifies a clustering strategy
type Algorithm string

const (
	// AlgorithmKMeans - random initialization, synthesized representatives
	AlgorithmKMeans Algorithm = "kmeans"
	// AlgorithmKMeansPP - K-Means with D² weighted seeding
	AlgorithmKMeansPP Algorithm = "kmeans++"
	// AlgorithmKMedoids - D² weighted seeding, dataset rows as representatives
	AlgorithmKMedoids Algorithm = "kmedoids"
)

// ParseAlgorithm parses a string into an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmeans", "k-means":
		return AlgorithmKMeans, nil
	case "kmeans++", "k-means++", "kmeanspp":
		return AlgorithmKMeansPP, nil
	case "kmedoids", "k-medoids":
		return AlgorithmKMedoids, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown algorithm: %q", s))
	}
}

// ClusteringResult packages the outcome of one strategy execution.
// It is created once when Execute returns and read-only afterward.
type ClusteringResult struct {
	// Assignment maps row index to cluster index in [0,k)
	Assignment []int `json:"assignment" yaml:"assignment"`
	// Representatives holds one row-shaped value per cluster: an actual
	// dataset row for K-Medoids, a synthesized row for K-Means
	Representatives [][]AnswerValue `json:"representatives" yaml:"representatives"`
	// Silhouette is the mean silhouette coefficient in [-1,1]
	Silhouette float64 `json:"silhouette" yaml:"silhouette"`
	// Inertia is the sum of squared row-to-representative distances
	Inertia float64 `json:"inertia" yaml:"inertia"`
	// Algorithm is the strategy label
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	// K is the number of clusters
	K int `json:"k" yaml:"k"`
	// Iterations is the number of iterations actually performed
	Iterations int `json:"iterations" yaml:"iterations"`
}

// String returns a one-line summary of the result
func (r *ClusteringResult) String() string {
	return fmt.Sprintf("ClusteringResult{Algorithm: %s, K: %d, Silhouette: %.3f, Inertia: %.3f, Iterations: %d}",
		r.Algorithm, r.K, r.Silhouette, r.Inertia, r.Iterations)
}

// ClusterSizes returns the number of rows assigned to each cluster.
func (r *ClusteringResult) ClusterSizes() []int {
	sizes := make([]int, r.K)
	for _, c := range r.Assignment {
		if c >= 0 && c < r.K {
			sizes[c]++
		}
	}
	return sizes
}

// GroupByCluster groups respondent identifiers by cluster index. The ID
// list is engine-external; it must be parallel to the assignment.
func (r *ClusteringResult) GroupByCluster(respondentIDs []string) ([][]string, error) {
	if len(respondentIDs) != len(r.Assignment) {
		return nil, NewInvalidInputError(fmt.Sprintf(
			"respondent ID count %d does not match assignment length %d",
			len(respondentIDs), len(r.Assignment)), nil)
	}
	groups := make([][]string, r.K)
	for i := range groups {
		groups[i] = []string{}
	}
	for row, cluster := range r.Assignment {
		groups[cluster] = append(groups[cluster], respondentIDs[row])
	}
	return groups, nil
}

// ClusterRequest represents a request for respondent clustering
type ClusterRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	IncludePatterns []string `json:"include_patterns"`

	// Engine configuration
	Algorithm Algorithm `json:"algorithm"`
	K         int       `json:"k"`
	KMin      int       `json:"k_min"`
	KMax      int       `json:"k_max"`
	MaxIter   int       `json:"max_iter"`
	Seed      int64     `json:"seed"`
	Seeded    bool      `json:"seeded"`

	// Output configuration
	OutputFormat        OutputFormat `json:"output_format"`
	OutputWriter        io.Writer    `json:"-" yaml:"-"`
	OutputPath          string       `json:"output_path"`
	ShowAssignments     bool         `json:"show_assignments"`
	ShowRepresentatives bool         `json:"show_representatives"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate validates a cluster request
func (req *ClusterRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if req.Algorithm == "" {
		return NewValidationError("algorithm must be specified")
	}
	if req.K < 1 && req.KMax < 1 {
		return NewValidationError("k (or a k range) must be >= 1")
	}
	if req.KMax > 0 && req.KMin > req.KMax {
		return NewValidationError(fmt.Sprintf("k_min %d exceeds k_max %d", req.KMin, req.KMax))
	}
	if req.MaxIter < 1 {
		return NewValidationError("max_iter must be >= 1")
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *ClusterRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DatasetStatistics summarizes the dataset handed to the engine
type DatasetStatistics struct {
	Respondents  int `json:"respondents" yaml:"respondents"`
	Questions    int `json:"questions" yaml:"questions"`
	MissingCells int `json:"missing_cells" yaml:"missing_cells"`
	ImputedCells int `json:"imputed_cells" yaml:"imputed_cells"`
}

// ClusterResponse represents the response from a clustering run
type ClusterResponse struct {
	// Best is the highest-silhouette result across all k attempted
	Best *ClusteringResult `json:"best" yaml:"best"`
	// Results holds one entry per k attempted, in ascending k order
	Results []*ClusteringResult `json:"results" yaml:"results"`
	// Groups pairs respondent IDs with the best result's clusters
	Groups [][]string `json:"groups" yaml:"groups"`

	Statistics *DatasetStatistics `json:"statistics" yaml:"statistics"`

	// Metadata
	Request  *ClusterRequest `json:"request,omitempty" yaml:"request,omitempty"`
	Duration int64           `json:"duration_ms" yaml:"duration_ms"`
	Success  bool            `json:"success" yaml:"success"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// SweepProgress reports per-k completion during a sweep. It is called once
// with completed == 0 after the sweep range has been resolved against the
// dataset, then once after each finished k. A nil callback disables
// reporting.
type SweepProgress func(completed, total int)

// ClusterService defines the interface for respondent clustering
type ClusterService interface {
	// Cluster runs one strategy execution for a single k
	Cluster(ctx context.Context, dataset *Dataset, req *ClusterRequest) (*ClusterResponse, error)

	// Sweep runs the strategy once per k in [KMin,KMax] and keeps every result
	Sweep(ctx context.Context, dataset *Dataset, req *ClusterRequest, progress SweepProgress) (*ClusterResponse, error)

	// Impute fills every absent cell of the dataset in place
	Impute(ctx context.Context, dataset *Dataset) (int, error)
}

// DatasetReader defines the interface for loading survey datasets
type DatasetReader interface {
	// ReadDataset loads a dataset document from a JSON or YAML file
	ReadDataset(path string) (*Dataset, error)

	// CollectDatasetFiles resolves paths and glob patterns to dataset files
	CollectDatasetFiles(paths []string, includePatterns []string) ([]string, error)
}

// ClusterOutputFormatter defines the interface for formatting clustering results
type ClusterOutputFormatter interface {
	// FormatClusterResponse formats a response according to the specified format
	FormatClusterResponse(response *ClusterResponse, format OutputFormat, writer io.Writer) error
}

// ClusterConfigurationLoader defines the interface for loading clustering configuration
type ClusterConfigurationLoader interface {
	// LoadClusterConfig loads clustering configuration from file
	LoadClusterConfig(configPath string) (*ClusterRequest, error)

	// GetDefaultClusterConfig returns the default clustering configuration
	GetDefaultClusterConfig() *ClusterRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base, override *ClusterRequest) *ClusterRequest
}
