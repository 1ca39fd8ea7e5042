package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cohort-labs/cohort/domain"
	svc "github.com/cohort-labs/cohort/service"
)

// ClusterUseCase orchestrates the respondent clustering workflow
type ClusterUseCase struct {
	service       domain.ClusterService
	datasetReader domain.DatasetReader
	formatter     domain.ClusterOutputFormatter
	configLoader  domain.ClusterConfigurationLoader
	output        domain.ReportWriter
	progress      domain.ProgressManager
}

// NewClusterUseCase creates a new clustering use case
func NewClusterUseCase(
	service domain.ClusterService,
	datasetReader domain.DatasetReader,
	formatter domain.ClusterOutputFormatter,
	configLoader domain.ClusterConfigurationLoader,
) *ClusterUseCase {
	return &ClusterUseCase{
		service:       service,
		datasetReader: datasetReader,
		formatter:     formatter,
		configLoader:  configLoader,
		output:        svc.NewFileOutputWriter(nil),
		progress:      svc.NewProgressManager(),
	}
}

// Execute runs a single-k clustering and writes the formatted report
func (uc *ClusterUseCase) Execute(ctx context.Context, req domain.ClusterRequest) error {
	response, err := uc.ExecuteAndReturn(ctx, req)
	if err != nil {
		return err
	}
	return uc.writeResponse(response)
}

// ExecuteAndReturn runs a single-k clustering and returns the response
// without formatting
func (uc *ClusterUseCase) ExecuteAndReturn(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	finalReq, dataset, err := uc.prepareRun(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Cluster(ctx, dataset, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("clustering failed", err)
	}
	return response, nil
}

// ExecuteSweep runs the best-of-K sweep and writes the formatted report
func (uc *ClusterUseCase) ExecuteSweep(ctx context.Context, req domain.ClusterRequest) error {
	response, err := uc.ExecuteSweepAndReturn(ctx, req)
	if err != nil {
		return err
	}
	return uc.writeResponse(response)
}

// ExecuteSweepAndReturn runs the best-of-K sweep and returns the response
// without formatting
func (uc *ClusterUseCase) ExecuteSweepAndReturn(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	finalReq, dataset, err := uc.prepareRun(ctx, req)
	if err != nil {
		return nil, err
	}

	// The service reports the clamped sweep size through the callback, so
	// the bar is sized after bounds are resolved against the dataset.
	response, err := uc.service.Sweep(ctx, dataset, finalReq, func(completed, total int) {
		if completed == 0 {
			uc.progress.Initialize(total)
			uc.progress.Start()
			return
		}
		uc.progress.Update(completed, total)
	})
	uc.progress.Complete(err == nil)
	if err != nil {
		return nil, domain.NewAnalysisError("clustering sweep failed", err)
	}
	return response, nil
}

// ExecuteImpute fills the dataset's absent cells and writes the imputed
// dataset to the requested output
func (uc *ClusterUseCase) ExecuteImpute(ctx context.Context, req domain.ClusterRequest) error {
	dataset, filled, finalReq, err := uc.executeImpute(ctx, req)
	if err != nil {
		return err
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	doc := svc.BuildDatasetDocument(dataset)
	writeErr := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		switch finalReq.OutputFormat {
		case domain.OutputFormatYAML:
			return svc.WriteYAML(w, doc)
		default:
			return svc.WriteJSON(w, doc)
		}
	})
	if writeErr != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write imputed dataset (%d cells filled)", filled), writeErr)
	}
	return nil
}

// ExecuteImputeAndReturn fills the dataset's absent cells and returns the
// imputed dataset together with the number of filled cells
func (uc *ClusterUseCase) ExecuteImputeAndReturn(ctx context.Context, req domain.ClusterRequest) (*domain.Dataset, int, error) {
	dataset, filled, _, err := uc.executeImpute(ctx, req)
	return dataset, filled, err
}

func (uc *ClusterUseCase) executeImpute(ctx context.Context, req domain.ClusterRequest) (*domain.Dataset, int, *domain.ClusterRequest, error) {
	finalReq, dataset, err := uc.prepareRun(ctx, req)
	if err != nil {
		return nil, 0, nil, err
	}

	filled, err := uc.service.Impute(ctx, dataset)
	if err != nil {
		return nil, 0, nil, domain.NewAnalysisError("imputation failed", err)
	}
	return dataset, filled, finalReq, nil
}

// prepareRun validates the request, merges configuration, and loads the
// dataset the request points at.
func (uc *ClusterUseCase) prepareRun(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterRequest, *domain.Dataset, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration", err)
	}

	if err := uc.validateRequest(*finalReq); err != nil {
		return nil, nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := uc.datasetReader.CollectDatasetFiles(finalReq.Paths, finalReq.IncludePatterns)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, domain.NewInvalidInputError("no dataset files found in the specified paths", nil)
	}
	if len(files) > 1 {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf(
			"found %d dataset files; narrow the paths or patterns to a single dataset", len(files)), nil)
	}

	dataset, err := uc.datasetReader.ReadDataset(files[0])
	if err != nil {
		return nil, nil, err
	}

	return finalReq, dataset, nil
}

// writeResponse delegates output handling to the ReportWriter
func (uc *ClusterUseCase) writeResponse(response *domain.ClusterResponse) error {
	req := response.Request

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatClusterResponse(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// validateRequest validates the clustering request
func (uc *ClusterUseCase) validateRequest(req domain.ClusterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	return nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *ClusterUseCase) loadAndMergeConfig(req domain.ClusterRequest) (*domain.ClusterRequest, error) {
	if uc.configLoader == nil {
		return &req, nil
	}

	var configReq *domain.ClusterRequest
	var err error

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadClusterConfig(req.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
		}
	} else {
		configReq = uc.configLoader.GetDefaultClusterConfig()
	}

	if configReq != nil {
		// Merge config with request (request takes precedence)
		return uc.configLoader.MergeConfig(configReq, &req), nil
	}

	return &req, nil
}

// ClusterUseCaseBuilder provides a builder pattern for creating ClusterUseCase
type ClusterUseCaseBuilder struct {
	service       domain.ClusterService
	datasetReader domain.DatasetReader
	formatter     domain.ClusterOutputFormatter
	configLoader  domain.ClusterConfigurationLoader
	output        domain.ReportWriter
	progress      domain.ProgressManager
}

// NewClusterUseCaseBuilder creates a new builder
func NewClusterUseCaseBuilder() *ClusterUseCaseBuilder {
	return &ClusterUseCaseBuilder{}
}

// WithService sets the clustering service
func (b *ClusterUseCaseBuilder) WithService(service domain.ClusterService) *ClusterUseCaseBuilder {
	b.service = service
	return b
}

// WithDatasetReader sets the dataset reader
func (b *ClusterUseCaseBuilder) WithDatasetReader(reader domain.DatasetReader) *ClusterUseCaseBuilder {
	b.datasetReader = reader
	return b
}

// WithFormatter sets the output formatter
func (b *ClusterUseCaseBuilder) WithFormatter(formatter domain.ClusterOutputFormatter) *ClusterUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ClusterUseCaseBuilder) WithConfigLoader(configLoader domain.ClusterConfigurationLoader) *ClusterUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *ClusterUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *ClusterUseCaseBuilder {
	b.output = output
	return b
}

// WithProgressManager sets the progress manager
func (b *ClusterUseCaseBuilder) WithProgressManager(progress domain.ProgressManager) *ClusterUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the ClusterUseCase with the configured dependencies
func (b *ClusterUseCaseBuilder) Build() (*ClusterUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("cluster service is required")
	}
	if b.datasetReader == nil {
		return nil, fmt.Errorf("dataset reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewClusterUseCase(
		b.service,
		b.datasetReader,
		b.formatter,
		b.configLoader,
	)
	if b.output != nil {
		uc.output = b.output
	}
	if b.progress != nil {
		uc.progress = b.progress
	}
	return uc, nil
}
