package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-labs/cohort/domain"
)

func TestNewErrorCategorizer(t *testing.T) {
	categorizer := NewErrorCategorizer()
	assert.NotNil(t, categorizer)
	assert.IsType(t, &ErrorCategorizerImpl{}, categorizer)
}

func TestCategorize_Nil(t *testing.T) {
	categorizer := NewErrorCategorizer()
	assert.Nil(t, categorizer.Categorize(nil))
}

// Domain errors categorize by code, not by message text.
func TestCategorize_DomainErrorCodes(t *testing.T) {
	categorizer := NewErrorCategorizer()

	tests := []struct {
		name         string
		err          error
		wantCategory domain.ErrorCategory
	}{
		{
			name:         "invalid input",
			err:          domain.NewInvalidInputError("something went wrong", nil),
			wantCategory: domain.ErrorCategoryInput,
		},
		{
			name:         "config error",
			err:          domain.NewConfigError("something went wrong", nil),
			wantCategory: domain.ErrorCategoryConfig,
		},
		{
			name:         "dataset error",
			err:          domain.NewDatasetError("something went wrong", nil),
			wantCategory: domain.ErrorCategoryDataset,
		},
		{
			name:         "output error",
			err:          domain.NewOutputError("something went wrong", nil),
			wantCategory: domain.ErrorCategoryOutput,
		},
		{
			name:         "unsupported format",
			err:          domain.NewUnsupportedFormatError("html"),
			wantCategory: domain.ErrorCategoryOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := categorizer.Categorize(tt.err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.err, result.Original)
		})
	}
}

func TestCategorize_MessagePatterns(t *testing.T) {
	categorizer := NewErrorCategorizer()

	tests := []struct {
		name         string
		errMsg       string
		wantCategory domain.ErrorCategory
	}{
		{
			name:         "file not found",
			errMsg:       "file not found: survey.json",
			wantCategory: domain.ErrorCategoryInput,
		},
		{
			name:         "permission denied",
			errMsg:       "permission denied when reading file",
			wantCategory: domain.ErrorCategoryInput,
		},
		{
			name:         "toml parse",
			errMsg:       "toml: line 3: expected value",
			wantCategory: domain.ErrorCategoryConfig,
		},
		{
			name:         "respondent issue",
			errMsg:       "respondent r7 has a malformed answer",
			wantCategory: domain.ErrorCategoryDataset,
		},
		{
			name:         "write failure",
			errMsg:       "write /tmp/report: disk full",
			wantCategory: domain.ErrorCategoryOutput,
		},
		{
			name:         "unmatched",
			errMsg:       "unexpected internal state",
			wantCategory: domain.ErrorCategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := categorizer.Categorize(errors.New(tt.errMsg))
			require.NotNil(t, result)
			assert.Equal(t, tt.wantCategory, result.Category)
		})
	}
}

func TestGetRecoverySuggestions(t *testing.T) {
	categorizer := NewErrorCategorizer()

	for _, category := range []domain.ErrorCategory{
		domain.ErrorCategoryInput,
		domain.ErrorCategoryConfig,
		domain.ErrorCategoryDataset,
		domain.ErrorCategoryOutput,
		domain.ErrorCategoryUnknown,
	} {
		suggestions := categorizer.GetRecoverySuggestions(category)
		assert.NotEmpty(t, suggestions, "category %s", category)
	}

	// Config errors point at the init command.
	suggestions := categorizer.GetRecoverySuggestions(domain.ErrorCategoryConfig)
	found := false
	for _, s := range suggestions {
		if s == "Try: cohort init to generate a valid config file" {
			found = true
		}
	}
	assert.True(t, found)
}
