package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// CohortTomlConfig represents the structure of .cohort.toml
type CohortTomlConfig struct {
	Cluster  CohortTomlClusterConfig  `toml:"cluster"`
	Output   CohortTomlOutputConfig   `toml:"output"`
	Analysis CohortTomlAnalysisConfig `toml:"analysis"`
}

// CohortTomlClusterConfig represents the [cluster] section
type CohortTomlClusterConfig struct {
	Algorithm     string `toml:"algorithm"`
	K             int    `toml:"k"`
	KMin          int    `toml:"k_min"`
	KMax          int    `toml:"k_max"`
	MaxIterations int    `toml:"max_iterations"`
	Seed          *int64 `toml:"seed"` // pointer to detect unset
}

// CohortTomlOutputConfig represents the [output] section
type CohortTomlOutputConfig struct {
	Format              string `toml:"format"`
	Directory           string `toml:"directory"`
	ShowAssignments     *bool  `toml:"show_assignments"`     // pointer to detect unset
	ShowRepresentatives *bool  `toml:"show_representatives"` // pointer to detect unset
}

// CohortTomlAnalysisConfig represents the [analysis] section
type CohortTomlAnalysisConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from .cohort.toml, walking up from
// startDir. Returns defaults when no config file is found.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.findCohortToml(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var tomlConfig CohortTomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, err
	}

	// Merge with defaults
	defaults := DefaultConfig()
	l.mergeTomlConfig(defaults, &tomlConfig)

	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return defaults, nil
}

// findCohortToml walks up the directory tree to find .cohort.toml
func (l *TomlConfigLoader) findCohortToml(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".cohort.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges .cohort.toml values into defaults, using pointer
// fields to detect unset booleans and the seed.
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, tomlConfig *CohortTomlConfig) {
	if tomlConfig.Cluster.Algorithm != "" {
		defaults.Cluster.Algorithm = tomlConfig.Cluster.Algorithm
	}
	if tomlConfig.Cluster.K > 0 {
		defaults.Cluster.K = tomlConfig.Cluster.K
	}
	if tomlConfig.Cluster.KMin > 0 {
		defaults.Cluster.KMin = tomlConfig.Cluster.KMin
	}
	if tomlConfig.Cluster.KMax > 0 {
		defaults.Cluster.KMax = tomlConfig.Cluster.KMax
	}
	if tomlConfig.Cluster.MaxIterations > 0 {
		defaults.Cluster.MaxIterations = tomlConfig.Cluster.MaxIterations
	}
	if tomlConfig.Cluster.Seed != nil {
		defaults.Cluster.Seed = *tomlConfig.Cluster.Seed
		defaults.Cluster.Seeded = true
	}

	if tomlConfig.Output.Format != "" {
		defaults.Output.Format = tomlConfig.Output.Format
	}
	if tomlConfig.Output.Directory != "" {
		defaults.Output.Directory = tomlConfig.Output.Directory
	}
	if tomlConfig.Output.ShowAssignments != nil {
		defaults.Output.ShowAssignments = *tomlConfig.Output.ShowAssignments
	}
	if tomlConfig.Output.ShowRepresentatives != nil {
		defaults.Output.ShowRepresentatives = *tomlConfig.Output.ShowRepresentatives
	}

	if len(tomlConfig.Analysis.IncludePatterns) > 0 {
		defaults.Analysis.IncludePatterns = tomlConfig.Analysis.IncludePatterns
	}
}

// GetSupportedConfigFiles returns the list of supported TOML config files
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{
		".cohort.toml",
	}
}
