package mcp

import (
	"github.com/cohort-labs/cohort/app"
	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/config"
	"github.com/cohort-labs/cohort/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	datasetReader domain.DatasetReader
	config        *config.Config
	configPath    string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		datasetReader: service.NewDatasetReader(),
		config:        cfg,
		configPath:    configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildClusterUseCase assembles a fresh ClusterUseCase with injected dependencies.
func (d *Dependencies) BuildClusterUseCase() (*app.ClusterUseCase, error) {
	return buildClusterUseCase(d.datasetReader)
}

func buildClusterUseCase(datasetReader domain.DatasetReader) (*app.ClusterUseCase, error) {
	return app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService()).
		WithDatasetReader(datasetReader).
		WithFormatter(service.NewClusterFormatter()).
		WithConfigLoader(service.NewClusterConfigurationLoader()).
		Build()
}
