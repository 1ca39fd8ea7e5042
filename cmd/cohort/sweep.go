package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cohort-labs/cohort/domain"
)

// SweepCommand represents the sweep command
type SweepCommand struct {
	algorithm       string
	kMin            int
	kMax            int
	maxIter         int
	seed            int64
	json            bool
	yaml            bool
	csv             bool
	outputPath      string
	includePatterns []string
	configPath      string
}

// NewSweepCommand creates a new sweep command
func NewSweepCommand() *SweepCommand {
	return &SweepCommand{}
}

// CreateCobraCommand creates the cobra command for the best-of-K sweep
func (s *SweepCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [paths...]",
		Short: "Find the best cluster count by silhouette score",
		Long: `Run the clustering strategy once for every k in [k-min, k-max] and
report the k with the highest mean silhouette score.

The full per-k table is included in the report, so close calls are
visible rather than hidden behind the single winner.

Examples:
  cohort sweep survey.json                     # k in [2,8] (default)
  cohort sweep --k-min 2 --k-max 12 survey.json
  cohort sweep --algorithm kmeans++ --seed 7 . # Reproducible sweep`,
		Args: cobra.MinimumNArgs(1),
		RunE: s.runSweep,
	}

	cmd.Flags().StringVarP(&s.algorithm, "algorithm", "a", "", "Clustering algorithm (kmeans|kmeans++|kmedoids)")
	cmd.Flags().IntVar(&s.kMin, "k-min", 0, "Lower bound of the sweep")
	cmd.Flags().IntVar(&s.kMax, "k-max", 0, "Upper bound of the sweep")
	cmd.Flags().IntVar(&s.maxIter, "max-iter", 0, "Maximum iterations per run")
	cmd.Flags().Int64Var(&s.seed, "seed", 0, "Random seed for reproducible runs")

	cmd.Flags().BoolVar(&s.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&s.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().BoolVar(&s.csv, "csv", false, "Output assignment as CSV")
	cmd.Flags().StringVarP(&s.outputPath, "output", "o", "", "Write the report to a file")

	cmd.Flags().StringSliceVar(&s.includePatterns, "include", nil, "Dataset file patterns")
	cmd.Flags().StringVarP(&s.configPath, "config", "c", "", "Configuration file path")

	return cmd
}

// runSweep executes the sweep command
func (s *SweepCommand) runSweep(cmd *cobra.Command, args []string) error {
	explicitFlags := GetExplicitFlags(cmd)

	request := domain.ClusterRequest{
		Paths:           args,
		IncludePatterns: s.includePatterns,
		Algorithm:       domain.Algorithm(s.algorithm),
		KMin:            s.kMin,
		KMax:            s.kMax,
		MaxIter:         s.maxIter,
		Seed:            s.seed,
		Seeded:          explicitFlags["seed"],
		OutputFormat:    resolveOutputFormat(s.json, s.yaml, s.csv),
		OutputWriter:    os.Stdout,
		OutputPath:      s.outputPath,
		ShowAssignments: true,
		ConfigPath:      s.configPath,
	}

	useCase, err := buildClusterUseCase(explicitFlags)
	if err != nil {
		return fmt.Errorf("failed to create cluster use case: %w", err)
	}

	if err := useCase.ExecuteSweep(cmd.Context(), request); err != nil {
		return reportError(cmd, err)
	}
	return nil
}

// NewSweepCmd creates and returns the sweep cobra command
func NewSweepCmd() *cobra.Command {
	return NewSweepCommand().CreateCobraCommand()
}
