package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

// twoGroupDataset builds a dataset with two well-separated respondent
// groups: young northerners and older southerners.
func twoGroupDataset(perGroup int) *domain.Dataset {
	questions := []domain.Question{
		{ID: "age", Type: domain.QuestionNumeric, Min: 18, Max: 80},
		{ID: "region", Type: domain.QuestionSingleChoice, Options: []string{"north", "south"}},
		{ID: "satisfaction", Type: domain.QuestionOrdinal, Options: []string{"low", "medium", "high"}},
	}

	var respondents []string
	var matrix domain.AnswerMatrix
	for i := 0; i < perGroup; i++ {
		respondents = append(respondents, fmt.Sprintf("young-%d", i))
		matrix = append(matrix, []domain.AnswerValue{
			domain.NumberAnswer(20 + float64(i)),
			domain.TextAnswer("north"),
			domain.TextAnswer("high"),
		})
	}
	for i := 0; i < perGroup; i++ {
		respondents = append(respondents, fmt.Sprintf("old-%d", i))
		matrix = append(matrix, []domain.AnswerValue{
			domain.NumberAnswer(70 + float64(i)),
			domain.TextAnswer("south"),
			domain.TextAnswer("low"),
		})
	}

	return &domain.Dataset{
		Questions:   questions,
		Respondents: respondents,
		Matrix:      matrix,
	}
}

func seededRequest(algorithm domain.Algorithm, k int) *domain.ClusterRequest {
	return &domain.ClusterRequest{
		Paths:     []string{"."},
		Algorithm: algorithm,
		K:         k,
		MaxIter:   domain.DefaultMaxIterations,
		Seed:      42,
		Seeded:    true,
	}
}

func TestCluster_SeparatesGroups(t *testing.T) {
	for _, algorithm := range []domain.Algorithm{
		domain.AlgorithmKMeans,
		domain.AlgorithmKMeansPP,
		domain.AlgorithmKMedoids,
	} {
		t.Run(string(algorithm), func(t *testing.T) {
			service := NewClusterService()
			dataset := twoGroupDataset(4)

			response, err := service.Cluster(context.Background(), dataset, seededRequest(algorithm, 2))
			require.NoError(t, err)
			require.NotNil(t, response.Best)

			assert.True(t, response.Success)
			assert.Equal(t, 2, response.Best.K)
			assert.Equal(t, algorithm, response.Best.Algorithm)
			assert.Len(t, response.Groups, 2)

			// Well-separated groups should land in distinct clusters.
			assignment := response.Best.Assignment
			require.Len(t, assignment, 8)
			youngCluster := assignment[0]
			oldCluster := assignment[4]
			assert.NotEqual(t, youngCluster, oldCluster)
			for i := 0; i < 4; i++ {
				assert.Equal(t, youngCluster, assignment[i])
				assert.Equal(t, oldCluster, assignment[4+i])
			}
			assert.Greater(t, response.Best.Silhouette, 0.5)
		})
	}
}

func TestCluster_Deterministic(t *testing.T) {
	service := NewClusterService()
	req := seededRequest(domain.AlgorithmKMedoids, 2)

	first, err := service.Cluster(context.Background(), twoGroupDataset(4), req)
	require.NoError(t, err)
	second, err := service.Cluster(context.Background(), twoGroupDataset(4), req)
	require.NoError(t, err)

	assert.Equal(t, first.Best.Assignment, second.Best.Assignment)
	assert.Equal(t, first.Best.Silhouette, second.Best.Silhouette)
}

func TestCluster_FillsMissingCells(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(4)
	dataset.Matrix[1][2] = domain.AbsentAnswer()
	dataset.Matrix[6][0] = domain.AbsentAnswer()

	response, err := service.Cluster(context.Background(), dataset, seededRequest(domain.AlgorithmKMedoids, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, response.Statistics.MissingCells)
	assert.Equal(t, 2, response.Statistics.ImputedCells)
	assert.Equal(t, 0, dataset.MissingCells())
}

func TestCluster_UnknownAlgorithm(t *testing.T) {
	service := NewClusterService()
	req := seededRequest("dbscan", 2)

	_, err := service.Cluster(context.Background(), twoGroupDataset(3), req)
	assert.Error(t, err)
}

func TestCluster_Cancelled(t *testing.T) {
	service := NewClusterService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Cluster(ctx, twoGroupDataset(3), seededRequest(domain.AlgorithmKMeans, 2))
	assert.Error(t, err)
}

func TestSweep_PicksBestSilhouette(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(5)

	req := seededRequest(domain.AlgorithmKMedoids, 0)
	req.KMin = 2
	req.KMax = 5

	response, err := service.Sweep(context.Background(), dataset, req, nil)
	require.NoError(t, err)
	require.Len(t, response.Results, 4)

	// Results come back in ascending k order.
	for i, result := range response.Results {
		assert.Equal(t, 2+i, result.K)
	}

	// Two planted groups should win the sweep.
	assert.Equal(t, 2, response.Best.K)
	for _, result := range response.Results {
		assert.LessOrEqual(t, result.Silhouette, response.Best.Silhouette)
	}
}

func TestSweep_ClampsKMaxToRows(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(2) // 4 respondents

	req := seededRequest(domain.AlgorithmKMeans, 0)
	req.KMin = 2
	req.KMax = 10

	response, err := service.Sweep(context.Background(), dataset, req, nil)
	require.NoError(t, err)
	assert.Len(t, response.Results, 3) // k in [2,4]
}

func TestSweep_ReportsClampedProgress(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(2) // 4 respondents

	req := seededRequest(domain.AlgorithmKMeans, 0)
	req.KMin = 2
	req.KMax = 10

	var steps [][2]int
	_, err := service.Sweep(context.Background(), dataset, req, func(completed, total int) {
		steps = append(steps, [2]int{completed, total})
	})
	require.NoError(t, err)

	// The callback totals reflect the clamped range [2,4], not the
	// requested [2,10], and every k reports once.
	require.Equal(t, [][2]int{{0, 3}, {1, 3}, {2, 3}, {3, 3}}, steps)
}

func TestSweep_EmptyRange(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(1) // 2 respondents

	req := seededRequest(domain.AlgorithmKMeans, 0)
	req.KMin = 5
	req.KMax = 8

	_, err := service.Sweep(context.Background(), dataset, req, nil)
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestImpute_ReturnsFilledCount(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(4)
	dataset.Matrix[0][0] = domain.AbsentAnswer()
	dataset.Matrix[3][1] = domain.AbsentAnswer()

	filled, err := service.Impute(context.Background(), dataset)
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.Equal(t, 0, dataset.MissingCells())

	// A young respondent's missing region should come from young neighbors.
	assert.Equal(t, "north", dataset.Matrix[3][1].Text)
}

func TestImpute_CompleteDatasetIsNoop(t *testing.T) {
	service := NewClusterService()
	dataset := twoGroupDataset(3)

	filled, err := service.Impute(context.Background(), dataset)
	require.NoError(t, err)
	assert.Zero(t, filled)
}
