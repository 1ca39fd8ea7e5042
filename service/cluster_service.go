package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/internal/analyzer"
)

// ClusterServiceImpl implements the ClusterService interface
type ClusterServiceImpl struct{}

// NewClusterService creates a new clustering service implementation
func NewClusterService() *ClusterServiceImpl {
	return &ClusterServiceImpl{}
}

// Cluster runs one strategy execution for the request's single k.
func (s *ClusterServiceImpl) Cluster(ctx context.Context, dataset *domain.Dataset, req *domain.ClusterRequest) (*domain.ClusterResponse, error) {
	startTime := time.Now()

	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	missing := dataset.MissingCells()
	imputed, err := s.Impute(ctx, dataset)
	if err != nil {
		return nil, err
	}

	result, err := s.runStrategy(ctx, dataset, req, req.K)
	if err != nil {
		return nil, err
	}

	groups, err := result.GroupByCluster(dataset.Respondents)
	if err != nil {
		return nil, err
	}

	return &domain.ClusterResponse{
		Best:    result,
		Results: []*domain.ClusteringResult{result},
		Groups:  groups,
		Statistics: &domain.DatasetStatistics{
			Respondents:  len(dataset.Respondents),
			Questions:    len(dataset.Questions),
			MissingCells: missing,
			ImputedCells: imputed,
		},
		Request:  req,
		Duration: time.Since(startTime).Milliseconds(),
		Success:  true,
	}, nil
}

// Sweep runs the strategy once per k in [KMin,KMax] and keeps the result
// with the highest silhouette. Ties resolve to the smaller k. The progress
// callback is invoked with the clamped sweep size before the first run and
// after each completed k.
func (s *ClusterServiceImpl) Sweep(ctx context.Context, dataset *domain.Dataset, req *domain.ClusterRequest, progress domain.SweepProgress) (*domain.ClusterResponse, error) {
	startTime := time.Now()

	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	kMin, kMax, err := sweepBounds(req, dataset.Matrix.Rows())
	if err != nil {
		return nil, err
	}
	total := kMax - kMin + 1
	if progress != nil {
		progress(0, total)
	}

	missing := dataset.MissingCells()
	imputed, err := s.Impute(ctx, dataset)
	if err != nil {
		return nil, err
	}

	var results []*domain.ClusteringResult
	var best *domain.ClusteringResult
	for k := kMin; k <= kMax; k++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("clustering sweep cancelled: %w", ctx.Err())
		default:
		}

		result, err := s.runStrategy(ctx, dataset, req, k)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		if best == nil || result.Silhouette > best.Silhouette {
			best = result
		}
		if progress != nil {
			progress(len(results), total)
		}
	}

	groups, err := best.GroupByCluster(dataset.Respondents)
	if err != nil {
		return nil, err
	}

	return &domain.ClusterResponse{
		Best:    best,
		Results: results,
		Groups:  groups,
		Statistics: &domain.DatasetStatistics{
			Respondents:  len(dataset.Respondents),
			Questions:    len(dataset.Questions),
			MissingCells: missing,
			ImputedCells: imputed,
		},
		Request:  req,
		Duration: time.Since(startTime).Milliseconds(),
		Success:  true,
	}, nil
}

// Impute fills every absent cell of the dataset in place and returns the
// number of cells filled.
func (s *ClusterServiceImpl) Impute(ctx context.Context, dataset *domain.Dataset) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("imputation cancelled: %w", ctx.Err())
	default:
	}

	if err := dataset.Validate(); err != nil {
		return 0, err
	}
	imputer := analyzer.NewImputer(buildCalculator(dataset))
	return imputer.Impute(dataset.Matrix)
}

// runStrategy builds, configures, and executes a strategy for one k.
func (s *ClusterServiceImpl) runStrategy(ctx context.Context, dataset *domain.Dataset, req *domain.ClusterRequest, k int) (*domain.ClusteringResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("clustering cancelled: %w", ctx.Err())
	default:
	}

	maxIter := req.MaxIter
	if maxIter < 1 {
		maxIter = domain.DefaultMaxIterations
	}

	strategy, err := analyzer.CreateStrategy(req.Algorithm, k, maxIter)
	if err != nil {
		return nil, err
	}
	configureStrategy(strategy, dataset)
	if req.Seeded {
		strategy.SetSeed(req.Seed)
	}
	return strategy.Execute(dataset.Matrix)
}

// configureStrategy transfers the dataset's per-question side data onto a
// strategy instance.
func configureStrategy(strategy analyzer.ClusteringStrategy, dataset *domain.Dataset) {
	strategy.SetQuestionTypes(dataset.QuestionTypes())
	for col, q := range dataset.Questions {
		switch q.Type {
		case domain.QuestionNumeric:
			strategy.SetNumericRange(col, q.Min, q.Max)
		case domain.QuestionOrdinal:
			strategy.SetOrdinalOptions(col, q.Options)
		}
	}
}

// buildCalculator constructs a distance calculator over the dataset's
// question configuration.
func buildCalculator(dataset *domain.Dataset) *analyzer.DistanceCalculator {
	ranges := make(map[int]analyzer.NumericRange)
	options := make(map[int][]string)
	for col, q := range dataset.Questions {
		switch q.Type {
		case domain.QuestionNumeric:
			ranges[col] = analyzer.NumericRange{Min: q.Min, Max: q.Max}
		case domain.QuestionOrdinal:
			options[col] = q.Options
		}
	}
	return analyzer.NewDistanceCalculator(dataset.QuestionTypes(), ranges, options)
}

// sweepBounds resolves the sweep range against the dataset size. The upper
// bound is clamped to the row count; an empty range is a config error.
func sweepBounds(req *domain.ClusterRequest, rows int) (int, int, error) {
	kMin := req.KMin
	if kMin < 2 {
		kMin = 2
	}
	kMax := req.KMax
	if kMax > rows {
		kMax = rows
	}
	if kMax < kMin {
		return 0, 0, domain.NewConfigError(fmt.Sprintf(
			"sweep range [%d,%d] is empty for %d respondents", req.KMin, req.KMax, rows), nil)
	}
	return kMin, kMax, nil
}
