package main

import (
	"os"

	"github.com/cohort-labs/cohort/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cohort",
	Short: "A survey respondent clustering engine",
	Long: `cohort groups survey respondents by answer similarity using a
mixed-type distance function over numeric, ordinal, categorical,
multi-choice, and free-text questions.

Features:
  • K-Means, K-Means++, and K-Medoids strategies
  • KNN imputation of missing answers
  • Silhouette-driven best-of-K sweeps
  • JSON and YAML survey datasets`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewClusterCmd())
	rootCmd.AddCommand(NewSweepCmd())
	rootCmd.AddCommand(NewImputeCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
