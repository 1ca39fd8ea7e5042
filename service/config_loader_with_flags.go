package service

import (
	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/config"
)

// ClusterConfigurationLoaderWithFlags wraps configuration loading with
// explicit flag tracking. Only values whose flags were actually passed on
// the command line override the configuration file; everything else keeps
// the file's (or the default's) value.
type ClusterConfigurationLoaderWithFlags struct {
	loader      *ClusterConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewClusterConfigurationLoaderWithFlags creates a configuration loader
// that tracks which CLI flags were explicitly set
func NewClusterConfigurationLoaderWithFlags(explicitFlags map[string]bool) *ClusterConfigurationLoaderWithFlags {
	return &ClusterConfigurationLoaderWithFlags{
		loader:      NewClusterConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadClusterConfig loads clustering configuration from the specified path
func (cl *ClusterConfigurationLoaderWithFlags) LoadClusterConfig(configPath string) (*domain.ClusterRequest, error) {
	return cl.loader.LoadClusterConfig(configPath)
}

// GetDefaultClusterConfig returns the default clustering configuration
func (cl *ClusterConfigurationLoaderWithFlags) GetDefaultClusterConfig() *domain.ClusterRequest {
	return cl.loader.GetDefaultClusterConfig()
}

// MergeConfig merges CLI flags into a base request, respecting which flags
// were explicitly set
func (cl *ClusterConfigurationLoaderWithFlags) MergeConfig(base, override *domain.ClusterRequest) *domain.ClusterRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if cl.flagTracker.WasSet("algorithm") && override.Algorithm != "" {
		merged.Algorithm = override.Algorithm
	}
	merged.K = cl.flagTracker.MergeInt(merged.K, override.K, "k")
	merged.KMin = cl.flagTracker.MergeInt(merged.KMin, override.KMin, "k-min")
	merged.KMax = cl.flagTracker.MergeInt(merged.KMax, override.KMax, "k-max")
	merged.MaxIter = cl.flagTracker.MergeInt(merged.MaxIter, override.MaxIter, "max-iter")
	if cl.flagTracker.WasSet("seed") {
		merged.Seed = override.Seed
		merged.Seeded = true
	}

	// The CLI request always carries a format; it only wins over the
	// configuration file when one of the format flags was actually passed.
	if cl.flagTracker.WasSet("json") || cl.flagTracker.WasSet("yaml") || cl.flagTracker.WasSet("csv") {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}

	merged.ShowAssignments = cl.flagTracker.MergeBool(merged.ShowAssignments, override.ShowAssignments, "no-assignments")
	merged.ShowRepresentatives = cl.flagTracker.MergeBool(merged.ShowRepresentatives, override.ShowRepresentatives, "representatives")

	merged.IncludePatterns = cl.flagTracker.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, "include")

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// CreateConfigTemplate creates a template configuration file
func (cl *ClusterConfigurationLoaderWithFlags) CreateConfigTemplate(path string) error {
	return cl.loader.CreateConfigTemplate(path)
}
