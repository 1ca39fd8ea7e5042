package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMainHeader(t *testing.T) {
	utils := NewFormatUtils()
	header := utils.FormatMainHeader("Report")

	assert.True(t, strings.HasPrefix(header, "Report\n"))
	assert.Contains(t, header, strings.Repeat("=", HeaderWidth))
}

func TestFormatSectionHeader(t *testing.T) {
	utils := NewFormatUtils()
	header := utils.FormatSectionHeader("clusters")

	assert.Equal(t, "CLUSTERS\n--------\n", header)
}

func TestFormatLabelWithIndent(t *testing.T) {
	utils := NewFormatUtils()
	assert.Equal(t, "  Count: 4\n", utils.FormatLabelWithIndent(2, "Count", 4))
}

func TestFormatDuration(t *testing.T) {
	utils := NewFormatUtils()
	assert.Equal(t, "125ms", utils.FormatDuration(125))
	assert.Equal(t, "0ms", utils.FormatDuration(0))
}

func TestGetSilhouetteColor(t *testing.T) {
	utils := NewFormatUtils()

	tests := []struct {
		score float64
		want  string
	}{
		{0.9, ColorGreen},
		{0.51, ColorGreen},
		{0.5, ColorYellow},
		{0.26, ColorYellow},
		{0.25, ColorRed},
		{0.0, ColorRed},
		{-0.4, ColorRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, utils.GetSilhouetteColor(tt.score), "score %v", tt.score)
	}
}

func TestFormatSilhouetteWithColor(t *testing.T) {
	utils := NewFormatUtils()

	formatted := utils.FormatSilhouetteWithColor(0.82)
	assert.Contains(t, formatted, "0.820")
	assert.Contains(t, formatted, "strong structure")

	formatted = utils.FormatSilhouetteWithColor(0.10)
	assert.Contains(t, formatted, "no substantial structure")
}

func TestFormatSummaryStats_SortsLabels(t *testing.T) {
	utils := NewFormatUtils()

	output := utils.FormatSummaryStats(map[string]interface{}{
		"Zeta":  1,
		"Alpha": 2,
	})
	alpha := strings.Index(output, "Alpha")
	zeta := strings.Index(output, "Zeta")
	require.GreaterOrEqual(t, alpha, 0)
	require.GreaterOrEqual(t, zeta, 0)
	assert.Less(t, alpha, zeta)
}

func TestEncodeJSON_Unmarshalable(t *testing.T) {
	_, err := EncodeJSON(make(chan int))
	assert.Error(t, err)
}
