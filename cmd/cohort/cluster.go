package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cohort-labs/cohort/app"
	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/service"
)

// ClusterCommand represents the cluster command
type ClusterCommand struct {
	algorithm           string
	k                   int
	maxIter             int
	seed                int64
	json                bool
	yaml                bool
	csv                 bool
	outputPath          string
	showRepresentatives bool
	noAssignments       bool
	includePatterns     []string
	configPath          string
}

// NewClusterCommand creates a new cluster command
func NewClusterCommand() *ClusterCommand {
	return &ClusterCommand{}
}

// CreateCobraCommand creates the cobra command for respondent clustering
func (c *ClusterCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster [paths...]",
		Short: "Cluster survey respondents by answer similarity",
		Long: `Cluster survey respondents into k groups by answer similarity.

Missing answers are imputed from the nearest complete respondents before
clustering. The distance between two respondents is the mean per-question
distance across all questions, each normalized to [0,1].

Examples:
  cohort cluster survey.json                  # K-Medoids with k=3 (default)
  cohort cluster --algorithm kmeans++ -k 5 .  # K-Means++ with 5 clusters
  cohort cluster --seed 42 survey.yaml        # Reproducible run
  cohort cluster --json survey.json           # Output as JSON

Algorithms:
  kmeans    - uniform random initialization, synthesized representatives
  kmeans++  - D² weighted seeding, synthesized representatives
  kmedoids  - D² weighted seeding, dataset rows as representatives`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runCluster,
	}

	cmd.Flags().StringVarP(&c.algorithm, "algorithm", "a", "", "Clustering algorithm (kmeans|kmeans++|kmedoids)")
	cmd.Flags().IntVarP(&c.k, "k", "k", 0, "Number of clusters")
	cmd.Flags().IntVar(&c.maxIter, "max-iter", 0, "Maximum iterations per run")
	cmd.Flags().Int64Var(&c.seed, "seed", 0, "Random seed for reproducible runs")

	cmd.Flags().BoolVar(&c.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output assignment as CSV")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Write the report to a file")
	cmd.Flags().BoolVar(&c.showRepresentatives, "representatives", false, "Show cluster representatives")
	cmd.Flags().BoolVar(&c.noAssignments, "no-assignments", false, "Hide per-cluster respondent lists")

	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil, "Dataset file patterns")
	cmd.Flags().StringVarP(&c.configPath, "config", "c", "", "Configuration file path")

	return cmd
}

// runCluster executes the cluster command
func (c *ClusterCommand) runCluster(cmd *cobra.Command, args []string) error {
	explicitFlags := GetExplicitFlags(cmd)

	request := domain.ClusterRequest{
		Paths:               args,
		IncludePatterns:     c.includePatterns,
		Algorithm:           domain.Algorithm(c.algorithm),
		K:                   c.k,
		MaxIter:             c.maxIter,
		Seed:                c.seed,
		Seeded:              explicitFlags["seed"],
		OutputFormat:        resolveOutputFormat(c.json, c.yaml, c.csv),
		OutputWriter:        os.Stdout,
		OutputPath:          c.outputPath,
		ShowAssignments:     !c.noAssignments,
		ShowRepresentatives: c.showRepresentatives,
		ConfigPath:          c.configPath,
	}

	useCase, err := buildClusterUseCase(explicitFlags)
	if err != nil {
		return fmt.Errorf("failed to create cluster use case: %w", err)
	}

	if err := useCase.Execute(cmd.Context(), request); err != nil {
		return reportError(cmd, err)
	}
	return nil
}

// buildClusterUseCase wires the default service implementations. The
// explicit flag set drives the config merge so a configuration file value
// is only overridden by flags the user actually passed.
func buildClusterUseCase(explicitFlags map[string]bool) (*app.ClusterUseCase, error) {
	return app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService()).
		WithDatasetReader(service.NewDatasetReader()).
		WithFormatter(service.NewClusterFormatter()).
		WithConfigLoader(service.NewClusterConfigurationLoaderWithFlags(explicitFlags)).
		Build()
}

// NewClusterCmd creates and returns the cluster cobra command
func NewClusterCmd() *cobra.Command {
	return NewClusterCommand().CreateCobraCommand()
}
