package service

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/config"
)

// ClusterConfigurationLoaderImpl implements the ClusterConfigurationLoader interface
type ClusterConfigurationLoaderImpl struct{}

// NewClusterConfigurationLoader creates a new configuration loader service
func NewClusterConfigurationLoader() *ClusterConfigurationLoaderImpl {
	return &ClusterConfigurationLoaderImpl{}
}

// LoadClusterConfig loads clustering configuration from file. TOML files go
// through the dedicated loader; everything else goes through viper.
func (c *ClusterConfigurationLoaderImpl) LoadClusterConfig(configPath string) (*domain.ClusterRequest, error) {
	var cfg *config.Config
	var err error

	if strings.HasSuffix(configPath, ".toml") || configPath == "" {
		startDir := "."
		if configPath != "" {
			startDir = filepath.Dir(configPath)
		}
		cfg, err = config.NewTomlConfigLoader().LoadConfig(startDir)
	} else {
		cfg, err = config.LoadConfig(configPath)
	}
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToClusterRequest(cfg)
}

// GetDefaultClusterConfig returns the default clustering configuration
func (c *ClusterConfigurationLoaderImpl) GetDefaultClusterConfig() *domain.ClusterRequest {
	req, err := c.convertToClusterRequest(config.DefaultConfig())
	if err != nil {
		// The built-in defaults always convert cleanly.
		return domain.DefaultClusterRequest()
	}
	return req
}

// MergeConfig merges CLI flags into a base request. Zero values on the
// override are treated as unset. The display booleans combine so that
// either layer can hide assignments or reveal representatives.
func (c *ClusterConfigurationLoaderImpl) MergeConfig(base, override *domain.ClusterRequest) *domain.ClusterRequest {
	merged := *base
	merged.ShowAssignments = base.ShowAssignments && override.ShowAssignments
	merged.ShowRepresentatives = base.ShowRepresentatives || override.ShowRepresentatives

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.Algorithm != "" {
		merged.Algorithm = override.Algorithm
	}
	if override.K > 0 {
		merged.K = override.K
	}
	if override.KMin > 0 {
		merged.KMin = override.KMin
	}
	if override.KMax > 0 {
		merged.KMax = override.KMax
	}
	if override.MaxIter > 0 {
		merged.MaxIter = override.MaxIter
	}
	if override.Seeded {
		merged.Seed = override.Seed
		merged.Seeded = true
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	return &merged
}

// CreateConfigTemplate creates a template configuration file
func (c *ClusterConfigurationLoaderImpl) CreateConfigTemplate(path string) error {
	cfg := config.DefaultConfig()
	return config.SaveConfig(cfg, path)
}

// convertToClusterRequest converts internal config to a domain request
func (c *ClusterConfigurationLoaderImpl) convertToClusterRequest(cfg *config.Config) (*domain.ClusterRequest, error) {
	algorithm, err := domain.ParseAlgorithm(cfg.Cluster.Algorithm)
	if err != nil {
		return nil, err
	}

	outputFormat, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	return &domain.ClusterRequest{
		IncludePatterns:     cfg.Analysis.IncludePatterns,
		Algorithm:           algorithm,
		K:                   cfg.Cluster.K,
		KMin:                cfg.Cluster.KMin,
		KMax:                cfg.Cluster.KMax,
		MaxIter:             cfg.Cluster.MaxIterations,
		Seed:                cfg.Cluster.Seed,
		Seeded:              cfg.Cluster.Seeded,
		OutputFormat:        outputFormat,
		OutputWriter:        os.Stdout, // Default to stdout
		ShowAssignments:     cfg.Output.ShowAssignments,
		ShowRepresentatives: cfg.Output.ShowRepresentatives,
	}, nil
}
