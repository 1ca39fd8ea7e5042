package analyzer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

func TestCreateStrategy(t *testing.T) {
	cases := []struct {
		algorithm domain.Algorithm
		want      domain.Algorithm
	}{
		{domain.AlgorithmKMeans, domain.AlgorithmKMeans},
		{domain.AlgorithmKMeansPP, domain.AlgorithmKMeansPP},
		{domain.AlgorithmKMedoids, domain.AlgorithmKMedoids},
	}
	for _, tc := range cases {
		s, err := CreateStrategy(tc.algorithm, 2, 50)
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.Name())
	}

	_, err := CreateStrategy("dbscan", 2, 50)
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestSeedSpreadRowsPicksDistinctRows(t *testing.T) {
	calc := numericCalc(0, 10)
	matrix := domain.AnswerMatrix{
		{domain.NumberAnswer(0)},
		{domain.NumberAnswer(1)},
		{domain.NumberAnswer(5)},
		{domain.NumberAnswer(9)},
		{domain.NumberAnswer(10)},
	}

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		rows, err := seedSpreadRows(matrix, 3, calc, rng)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		seen := make(map[int]bool)
		for _, r := range rows {
			assert.False(t, seen[r], "row %d picked twice", r)
			seen[r] = true
		}
	}
}

func TestSeedSpreadRowsHandlesIdenticalRows(t *testing.T) {
	calc := numericCalc(0, 10)
	matrix := domain.AnswerMatrix{
		{domain.NumberAnswer(5)},
		{domain.NumberAnswer(5)},
		{domain.NumberAnswer(5)},
	}

	rng := rand.New(rand.NewSource(1))
	rows, err := seedSpreadRows(matrix, 3, calc, rng)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAssignRowsPrefersLowestIndexOnTies(t *testing.T) {
	calc := numericCalc(0, 10)
	matrix := domain.AnswerMatrix{{domain.NumberAnswer(5)}}
	representatives := [][]domain.AnswerValue{
		{domain.NumberAnswer(4)},
		{domain.NumberAnswer(6)},
	}

	assignment, err := assignRows(matrix, representatives, calc)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, assignment)
}

func TestRepresentativesEqualToleratesFloatNoise(t *testing.T) {
	types := []domain.QuestionType{domain.QuestionNumeric}
	a := [][]domain.AnswerValue{{domain.NumberAnswer(1.0)}}
	b := [][]domain.AnswerValue{{domain.NumberAnswer(1.0 + 1e-12)}}
	c := [][]domain.AnswerValue{{domain.NumberAnswer(1.1)}}

	assert.True(t, representativesEqual(a, b, types))
	assert.False(t, representativesEqual(a, c, types))
}

func TestStrategyInstancesAreIndependent(t *testing.T) {
	// Two instances with separate seeds must not share RNG state.
	matrix := numericSeparationMatrix()

	first := NewKMeans(2, 50)
	configureNumeric(first)
	first.SetSeed(5)

	second := NewKMeans(2, 50)
	configureNumeric(second)
	second.SetSeed(5)

	r1, err := first.Execute(matrix)
	require.NoError(t, err)
	r2, err := second.Execute(matrix)
	require.NoError(t, err)

	assert.Equal(t, r1.Assignment, r2.Assignment)
}
