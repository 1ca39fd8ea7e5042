package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cohort-labs/cohort/domain"
)

// ClusterFormatterImpl implements the ClusterOutputFormatter interface
type ClusterFormatterImpl struct{}

// NewClusterFormatter creates a new clustering output formatter
func NewClusterFormatter() *ClusterFormatterImpl {
	return &ClusterFormatterImpl{}
}

// Format formats the clustering response according to the specified format
func (f *ClusterFormatterImpl) Format(response *domain.ClusterResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response)
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	case domain.OutputFormatCSV:
		return f.formatCSV(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatClusterResponse writes the formatted output to the writer
func (f *ClusterFormatterImpl) FormatClusterResponse(response *domain.ClusterResponse, format domain.OutputFormat, writer io.Writer) error {
	formatted, err := f.Format(response, format)
	if err != nil {
		return err
	}

	_, err = writer.Write([]byte(formatted))
	return err
}

// formatText formats the response as human-readable text
func (f *ClusterFormatterImpl) formatText(response *domain.ClusterResponse) (string, error) {
	var builder strings.Builder
	utils := NewFormatUtils()

	builder.WriteString(utils.FormatMainHeader("Respondent Clustering Report"))

	best := response.Best
	stats := map[string]interface{}{
		"Algorithm":  string(best.Algorithm),
		"Clusters":   best.K,
		"Silhouette": utils.FormatSilhouetteWithColor(best.Silhouette),
		"Inertia":    fmt.Sprintf("%.4f", best.Inertia),
		"Iterations": best.Iterations,
		"Duration":   utils.FormatDuration(response.Duration),
	}
	builder.WriteString(utils.FormatSummaryStats(stats))

	if response.Statistics != nil {
		builder.WriteString(utils.FormatSectionHeader("DATASET"))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Respondents", response.Statistics.Respondents))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Questions", response.Statistics.Questions))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Missing Cells", response.Statistics.MissingCells))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Imputed Cells", response.Statistics.ImputedCells))
		builder.WriteString(utils.FormatSectionSeparator())
	}

	// Per-k table for sweep runs
	if len(response.Results) > 1 {
		builder.WriteString(utils.FormatSectionHeader("K SWEEP"))
		for _, result := range response.Results {
			marker := " "
			if result == best {
				marker = "*"
			}
			builder.WriteString(fmt.Sprintf("%s%s k=%-3d silhouette=%.3f inertia=%.4f iterations=%d\n",
				strings.Repeat(" ", SectionPadding), marker, result.K, result.Silhouette, result.Inertia, result.Iterations))
		}
		builder.WriteString(utils.FormatSectionSeparator())
	}

	if len(response.Groups) > 0 {
		builder.WriteString(utils.FormatSectionHeader("CLUSTERS"))
		for c, members := range response.Groups {
			builder.WriteString(utils.FormatLabelWithIndent(SectionPadding,
				fmt.Sprintf("Cluster %d", c), fmt.Sprintf("%d respondents", len(members))))
			if showAssignments(response) {
				builder.WriteString(fmt.Sprintf("%s%s\n",
					strings.Repeat(" ", ItemPadding), strings.Join(members, ", ")))
			}
		}
		builder.WriteString(utils.FormatSectionSeparator())
	}

	if showRepresentatives(response) {
		builder.WriteString(utils.FormatSectionHeader("REPRESENTATIVES"))
		for c, rep := range best.Representatives {
			values := make([]string, len(rep))
			for i, cell := range rep {
				values[i] = cell.String()
			}
			builder.WriteString(utils.FormatLabelWithIndent(SectionPadding,
				fmt.Sprintf("Cluster %d", c), strings.Join(values, " | ")))
		}
		builder.WriteString(utils.FormatSectionSeparator())
	}

	if response.Error != "" {
		builder.WriteString(utils.FormatSectionHeader("ERRORS"))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Error", response.Error))
	}

	return builder.String(), nil
}

// formatCSV formats the best result's assignment as CSV
func (f *ClusterFormatterImpl) formatCSV(response *domain.ClusterResponse) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write([]string{"Respondent", "Cluster"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for c, members := range response.Groups {
		for _, member := range members {
			if err := writer.Write([]string{member, strconv.Itoa(c)}); err != nil {
				return "", fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("CSV writer error: %w", err)
	}

	return builder.String(), nil
}

func showAssignments(response *domain.ClusterResponse) bool {
	return response.Request == nil || response.Request.ShowAssignments
}

func showRepresentatives(response *domain.ClusterResponse) bool {
	return response.Request != nil && response.Request.ShowRepresentatives
}
