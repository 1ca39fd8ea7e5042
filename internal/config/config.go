package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cohort-labs/cohort/domain"
)

// Config represents the main configuration structure
type Config struct {
	// Cluster holds clustering engine configuration
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Analysis holds dataset discovery configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
}

// ClusterConfig holds configuration for the clustering engine
type ClusterConfig struct {
	// Algorithm selects the strategy: kmeans, kmeans++, kmedoids
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`

	// K is the cluster count for single-k runs
	K int `mapstructure:"k" yaml:"k"`

	// KMin / KMax bound the best-of-K sweep
	KMin int `mapstructure:"k_min" yaml:"k_min"`
	KMax int `mapstructure:"k_max" yaml:"k_max"`

	// MaxIterations bounds a single strategy execution
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`

	// Seed fixes the random source when Seeded is true
	Seed   int64 `mapstructure:"seed" yaml:"seed"`
	Seeded bool  `mapstructure:"seeded" yaml:"seeded"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format"`

	// Directory receives generated report files when set
	Directory string `mapstructure:"directory" yaml:"directory"`

	// ShowAssignments controls whether respondent lists are printed per cluster
	ShowAssignments bool `mapstructure:"show_assignments" yaml:"show_assignments"`

	// ShowRepresentatives controls whether cluster representatives are printed
	ShowRepresentatives bool `mapstructure:"show_representatives" yaml:"show_representatives"`
}

// AnalysisConfig holds dataset discovery configuration
type AnalysisConfig struct {
	// IncludePatterns specifies dataset file patterns to include
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Algorithm:     string(domain.AlgorithmKMedoids),
			K:             domain.DefaultK,
			KMin:          domain.DefaultKMin,
			KMax:          domain.DefaultKMax,
			MaxIterations: domain.DefaultMaxIterations,
		},
		Output: OutputConfig{
			Format:          "text",
			ShowAssignments: true,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path specified, try to find default config files
	if configPath == "" {
		configPath = findDefaultConfig()
	}

	// If still no config found, return default
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig() string {
	candidates := []string{
		"cohort.yaml",
		"cohort.yml",
		".cohort.yaml",
		".cohort.yml",
	}

	// Check current directory first
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(home, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := domain.ParseAlgorithm(c.Cluster.Algorithm); err != nil {
		return fmt.Errorf("invalid cluster.algorithm %q, must be one of: kmeans, kmeans++, kmedoids", c.Cluster.Algorithm)
	}

	if c.Cluster.K < 1 {
		return fmt.Errorf("cluster.k must be >= 1, got %d", c.Cluster.K)
	}

	if c.Cluster.KMin < 2 {
		return fmt.Errorf("cluster.k_min must be >= 2, got %d", c.Cluster.KMin)
	}

	if c.Cluster.KMax < c.Cluster.KMin {
		return fmt.Errorf("cluster.k_max (%d) must be >= k_min (%d)", c.Cluster.KMax, c.Cluster.KMin)
	}

	if c.Cluster.MaxIterations < 1 {
		return fmt.Errorf("cluster.max_iterations must be >= 1, got %d", c.Cluster.MaxIterations)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("cluster", config.Cluster)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
