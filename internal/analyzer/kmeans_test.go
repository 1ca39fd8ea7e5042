package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

// numericSeparationMatrix is the canonical two-cluster dataset: one
// numeric column with range [0,10] and values {1,2,8,9}.
func numericSeparationMatrix() domain.AnswerMatrix {
	return domain.AnswerMatrix{
		{domain.NumberAnswer(1)},
		{domain.NumberAnswer(2)},
		{domain.NumberAnswer(8)},
		{domain.NumberAnswer(9)},
	}
}

func configureNumeric(s ClusteringStrategy) {
	s.SetQuestionTypes([]domain.QuestionType{domain.QuestionNumeric})
	s.SetNumericRange(0, 0, 10)
}

func assertSeparation(t *testing.T, result *domain.ClusteringResult) {
	t.Helper()
	assert.Equal(t, result.Assignment[0], result.Assignment[1], "rows 1 and 2 belong together")
	assert.Equal(t, result.Assignment[2], result.Assignment[3], "rows 8 and 9 belong together")
	assert.NotEqual(t, result.Assignment[0], result.Assignment[2], "the two groups must differ")
	assert.Greater(t, result.Silhouette, 0.7)
}

func TestKMeansNumericSeparation(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		km := NewKMeans(2, 50)
		configureNumeric(km)
		km.SetSeed(seed)

		result, err := km.Execute(numericSeparationMatrix())
		require.NoError(t, err)
		assertSeparation(t, result)
		assert.Equal(t, domain.AlgorithmKMeans, result.Algorithm)
		assert.Len(t, result.Representatives, 2)
	}
}

func TestKMeansPPNumericSeparation(t *testing.T) {
	km := NewKMeansPP(2, 50)
	configureNumeric(km)
	km.SetSeed(7)

	result, err := km.Execute(numericSeparationMatrix())
	require.NoError(t, err)
	assertSeparation(t, result)
	assert.Equal(t, domain.AlgorithmKMeansPP, result.Algorithm)
}

func TestKMeansDeterministicUnderSeed(t *testing.T) {
	run := func() *domain.ClusteringResult {
		km := NewKMeans(2, 50)
		configureNumeric(km)
		km.SetSeed(42)
		result, err := km.Execute(numericSeparationMatrix())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	assert.Equal(t, first.Assignment, second.Assignment)
	assert.Equal(t, first.Representatives, second.Representatives)
	assert.Equal(t, first.Inertia, second.Inertia)
	assert.Equal(t, first.Silhouette, second.Silhouette)
	assert.Equal(t, first.Iterations, second.Iterations)
}

func TestKMeansInvalidK(t *testing.T) {
	for _, k := range []int{0, -1, 5} {
		km := NewKMeans(k, 50)
		configureNumeric(km)
		_, err := km.Execute(numericSeparationMatrix())
		require.Error(t, err, "k=%d must be rejected", k)
		assert.True(t, domain.IsConfigError(err))
	}
}

func TestKMeansEmptyDataset(t *testing.T) {
	km := NewKMeans(2, 50)
	configureNumeric(km)
	_, err := km.Execute(domain.AnswerMatrix{})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestKMeansRejectsAbsentCells(t *testing.T) {
	km := NewKMeans(1, 50)
	configureNumeric(km)
	_, err := km.Execute(domain.AnswerMatrix{{domain.AbsentAnswer()}})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestKMeansMissingRangeIsConfigError(t *testing.T) {
	km := NewKMeans(2, 50)
	km.SetQuestionTypes([]domain.QuestionType{domain.QuestionNumeric})
	// range for column 0 deliberately not set
	_, err := km.Execute(numericSeparationMatrix())
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestKMeansSingletonClusters(t *testing.T) {
	// k == n: every row its own cluster, silhouette 0 by convention
	km := NewKMeans(4, 50)
	configureNumeric(km)
	km.SetSeed(3)

	result, err := km.Execute(numericSeparationMatrix())
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, c := range result.Assignment {
		seen[c] = true
	}
	assert.Len(t, seen, 4, "each row should land in its own cluster")
	assert.Equal(t, 0.0, result.Silhouette)
}

func TestKMeansMixedTypesRepresentatives(t *testing.T) {
	types := []domain.QuestionType{
		domain.QuestionNumeric,
		domain.QuestionSingleChoice,
		domain.QuestionMultiChoice,
	}
	matrix := domain.AnswerMatrix{
		{domain.NumberAnswer(1), domain.TextAnswer("a"), domain.OptionsAnswer([]string{"x"})},
		{domain.NumberAnswer(2), domain.TextAnswer("a"), domain.OptionsAnswer([]string{"x", "y"})},
		{domain.NumberAnswer(9), domain.TextAnswer("b"), domain.OptionsAnswer([]string{"z"})},
	}

	km := NewKMeans(1, 50)
	km.SetQuestionTypes(types)
	km.SetNumericRange(0, 0, 10)
	km.SetSeed(1)

	result, err := km.Execute(matrix)
	require.NoError(t, err)
	require.Len(t, result.Representatives, 1)

	rep := result.Representatives[0]
	assert.InDelta(t, 4.0, rep[0].Number, 1e-9, "numeric representative is the mean")
	assert.Equal(t, "a", rep[1].Text, "categorical representative is the mode")
	// "x" appears twice, everything else once
	assert.Equal(t, []string{"x"}, rep[2].Options)
}

func TestTopFrequencyOptionsKeepsTies(t *testing.T) {
	matrix := domain.AnswerMatrix{
		{domain.OptionsAnswer([]string{"x", "y"})},
		{domain.OptionsAnswer([]string{"y", "x"})},
		{domain.OptionsAnswer([]string{"z"})},
	}
	top := topFrequencyOptions(matrix, []int{0, 1, 2}, 0)
	assert.Equal(t, []string{"x", "y"}, top, "tied options are all kept, in first-seen order")
}

func TestModeValueTieBreak(t *testing.T) {
	matrix := domain.AnswerMatrix{
		{domain.TextAnswer("b")},
		{domain.TextAnswer("a")},
		{domain.TextAnswer("a")},
		{domain.TextAnswer("b")},
	}
	assert.Equal(t, "b", modeValue(matrix, []int{0, 1, 2, 3}, 0), "tie resolves to first-seen value")
}
