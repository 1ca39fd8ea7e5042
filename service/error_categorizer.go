package service

import (
	"errors"
	"strings"

	"github.com/cohort-labs/cohort/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns initializes error pattern mappings used for
// errors that do not carry a domain error code.
func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"invalid input",
			"no files found",
			"path",
			"directory",
			"file not found",
			"cannot access",
			"permission denied",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"configuration",
			"invalid settings",
			"toml",
			"seed",
			"algorithm",
		},
		domain.ErrorCategoryDataset: {
			"dataset",
			"question",
			"respondent",
			"matrix",
			"answer",
			"yaml",
			"json",
		},
		domain.ErrorCategoryOutput: {
			"write",
			"output",
			"format",
			"cannot create",
		},
	}
}

// Categorize determines the category of an error. Domain errors map by
// code; everything else falls back to message pattern matching.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	if category, ok := categoryFromDomainError(err); ok {
		return &domain.CategorizedError{
			Category: category,
			Message:  ec.getCategoryMessage(category),
			Original: err,
		}
	}

	errMsg := strings.ToLower(err.Error())
	for category, patterns := range ec.patterns {
		if containsAnyPattern(errMsg, patterns) {
			return &domain.CategorizedError{
				Category: category,
				Message:  ec.getCategoryMessage(category),
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// categoryFromDomainError maps domain error codes onto reporting categories.
func categoryFromDomainError(err error) (domain.ErrorCategory, bool) {
	var de domain.DomainError
	if !errors.As(err, &de) {
		return "", false
	}
	switch de.Code {
	case domain.ErrCodeInvalidInput:
		return domain.ErrorCategoryInput, true
	case domain.ErrCodeConfigError:
		return domain.ErrorCategoryConfig, true
	case domain.ErrCodeDatasetError:
		return domain.ErrorCategoryDataset, true
	case domain.ErrCodeOutputError, domain.ErrCodeUnsupportedFormat:
		return domain.ErrorCategoryOutput, true
	default:
		return "", false
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the paths exist and contain survey dataset files",
			"Ensure you have read permissions for the target files",
			"Use absolute paths if relative paths are causing issues",
		},
		domain.ErrorCategoryConfig: {
			"Verify the algorithm name, k range, and seed values",
			"Try: cohort init to generate a valid config file",
			"Check for syntax errors in .cohort.toml",
		},
		domain.ErrorCategoryDataset: {
			"Check the dataset file for malformed JSON or YAML",
			"Ensure every question declares the side data its type needs",
			"Verify that answers reference declared option values",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Use --format text or check file system permissions",
			"Try writing to a different location",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Check the documentation for known issues",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:   "Failed to process input files or directories",
		domain.ErrorCategoryConfig:  "Configuration file or settings error",
		domain.ErrorCategoryDataset: "Survey dataset could not be loaded",
		domain.ErrorCategoryOutput:  "Failed to generate or write output",
		domain.ErrorCategoryUnknown: "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
