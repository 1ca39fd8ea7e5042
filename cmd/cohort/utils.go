package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/service"
)

// resolveOutputFormat maps the format shortcut flags to an output format.
// JSON wins over YAML wins over CSV; no flag means the text report.
func resolveOutputFormat(jsonFlag, yamlFlag, csvFlag bool) domain.OutputFormat {
	switch {
	case jsonFlag:
		return domain.OutputFormatJSON
	case yamlFlag:
		return domain.OutputFormatYAML
	case csvFlag:
		return domain.OutputFormatCSV
	default:
		return domain.OutputFormatText
	}
}

// reportError categorizes a failure and prints recovery suggestions
// before handing the error back to cobra.
func reportError(cmd *cobra.Command, err error) error {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	suggestions := categorizer.GetRecoverySuggestions(categorized.Category)
	if len(suggestions) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n💡 Suggestions:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(cmd.ErrOrStderr(), "  • %s\n", suggestion)
		}
	}

	return err
}
