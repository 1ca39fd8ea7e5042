package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cohort-labs/cohort/domain"
)

// ImputeCommand represents the impute command
type ImputeCommand struct {
	yaml            bool
	outputPath      string
	includePatterns []string
	configPath      string
}

// NewImputeCommand creates a new impute command
func NewImputeCommand() *ImputeCommand {
	return &ImputeCommand{}
}

// CreateCobraCommand creates the cobra command for dataset imputation
func (i *ImputeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impute [paths...]",
		Short: "Fill missing answers and emit the completed dataset",
		Long: `Fill every missing answer in a survey dataset using the five nearest
complete respondents, then emit the completed dataset.

Numeric answers are averaged with inverse-distance weights; categorical
answers take the neighbor majority; multi-choice answers take every
option selected by more than half of the neighbors.

Examples:
  cohort impute survey.json                  # Imputed dataset as JSON
  cohort impute --yaml survey.json           # Imputed dataset as YAML
  cohort impute -o filled.json survey.json   # Write to a file`,
		Args: cobra.MinimumNArgs(1),
		RunE: i.runImpute,
	}

	cmd.Flags().BoolVar(&i.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().StringVarP(&i.outputPath, "output", "o", "", "Write the dataset to a file")
	cmd.Flags().StringSliceVar(&i.includePatterns, "include", nil, "Dataset file patterns")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", "", "Configuration file path")

	return cmd
}

// runImpute executes the impute command
func (i *ImputeCommand) runImpute(cmd *cobra.Command, args []string) error {
	explicitFlags := GetExplicitFlags(cmd)

	format := domain.OutputFormatJSON
	if i.yaml {
		format = domain.OutputFormatYAML
	}

	request := domain.ClusterRequest{
		Paths:           args,
		IncludePatterns: i.includePatterns,
		OutputFormat:    format,
		OutputWriter:    os.Stdout,
		OutputPath:      i.outputPath,
		ConfigPath:      i.configPath,
	}

	useCase, err := buildClusterUseCase(explicitFlags)
	if err != nil {
		return fmt.Errorf("failed to create cluster use case: %w", err)
	}

	if err := useCase.ExecuteImpute(cmd.Context(), request); err != nil {
		return reportError(cmd, err)
	}
	return nil
}

// NewImputeCmd creates and returns the impute cobra command
func NewImputeCmd() *cobra.Command {
	return NewImputeCommand().CreateCobraCommand()
}
