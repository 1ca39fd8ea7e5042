package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/cohort-labs/cohort/domain"
)

// DatasetReaderImpl implements the DatasetReader interface. It loads survey
// documents from JSON or YAML files and resolves paths and glob patterns to
// dataset files.
type DatasetReaderImpl struct{}

// NewDatasetReader creates a new dataset reader service
func NewDatasetReader() *DatasetReaderImpl {
	return &DatasetReaderImpl{}
}

// QuestionDocument is the on-disk shape of one survey question.
type QuestionDocument struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Type    string   `json:"type" yaml:"type"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// RespondentDocument is the on-disk shape of one respondent. Answers are
// keyed by question ID; a missing key is an absent answer.
type RespondentDocument struct {
	ID      string                 `json:"id" yaml:"id"`
	Answers map[string]interface{} `json:"answers" yaml:"answers"`
}

// DatasetDocument is the on-disk shape of a survey dataset file. It is
// both what ReadDataset parses and what BuildDatasetDocument produces, so
// an imputed dataset written back out can be read again.
type DatasetDocument struct {
	Questions   []QuestionDocument   `json:"questions" yaml:"questions"`
	Respondents []RespondentDocument `json:"respondents" yaml:"respondents"`
}

// ReadDataset loads a dataset document from a JSON or YAML file.
func (r *DatasetReaderImpl) ReadDataset(path string) (*domain.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewDatasetError(fmt.Sprintf("failed to read %s", path), err)
	}

	var doc DatasetDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(content, &doc); err != nil {
			return nil, domain.NewDatasetError(fmt.Sprintf("invalid JSON in %s", path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, domain.NewDatasetError(fmt.Sprintf("invalid YAML in %s", path), err)
		}
	default:
		return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
	}

	return r.buildDataset(&doc, path)
}

// CollectDatasetFiles resolves paths and glob patterns to dataset files.
// Directories are walked recursively; single files are taken as-is when they
// match the include patterns. The result is sorted and deduplicated so runs
// are reproducible regardless of argument order.
func (r *DatasetReaderImpl) CollectDatasetFiles(paths []string, includePatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}

		if !info.IsDir() {
			if matchesAny(path, includePatterns) {
				add(path)
			}
			continue
		}

		walkErr := filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if strings.HasPrefix(fi.Name(), ".") && p != path {
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !fi.IsDir() && matchesAny(p, includePatterns) {
				add(p)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, walkErr)
		}
	}

	sort.Strings(files)
	return files, nil
}

// matchesAny checks a path against the include patterns, matching both the
// base name and the full path so `**` patterns work.
func matchesAny(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.ToSlash(path)); matched {
			return true
		}
	}
	return false
}

// buildDataset converts a parsed document into a validated domain dataset.
func (r *DatasetReaderImpl) buildDataset(doc *DatasetDocument, path string) (*domain.Dataset, error) {
	if len(doc.Questions) == 0 {
		return nil, domain.NewDatasetError(fmt.Sprintf("%s declares no questions", path), nil)
	}

	questions := make([]domain.Question, len(doc.Questions))
	index := make(map[string]int, len(doc.Questions))
	for i, qd := range doc.Questions {
		if qd.ID == "" {
			return nil, domain.NewDatasetError(fmt.Sprintf("%s: question %d has no id", path, i), nil)
		}
		if _, dup := index[qd.ID]; dup {
			return nil, domain.NewDatasetError(fmt.Sprintf("%s: duplicate question id %q", path, qd.ID), nil)
		}
		qt, err := domain.ParseQuestionType(qd.Type)
		if err != nil {
			return nil, domain.NewDatasetError(fmt.Sprintf("%s: question %q", path, qd.ID), err)
		}
		q := domain.Question{
			ID:      qd.ID,
			Text:    qd.Text,
			Type:    qt,
			Options: qd.Options,
		}
		switch qt {
		case domain.QuestionNumeric:
			if qd.Min == nil || qd.Max == nil {
				return nil, domain.NewConfigError(fmt.Sprintf(
					"%s: numeric question %q must declare min and max", path, qd.ID), nil)
			}
			q.Min = *qd.Min
			q.Max = *qd.Max
		case domain.QuestionOrdinal, domain.QuestionSingleChoice, domain.QuestionMultiChoice:
			if len(qd.Options) == 0 {
				return nil, domain.NewConfigError(fmt.Sprintf(
					"%s: question %q must declare its options", path, qd.ID), nil)
			}
		}
		questions[i] = q
		index[qd.ID] = i
	}

	respondents := make([]string, len(doc.Respondents))
	matrix := make(domain.AnswerMatrix, len(doc.Respondents))
	for i, rd := range doc.Respondents {
		if rd.ID == "" {
			return nil, domain.NewDatasetError(fmt.Sprintf("%s: respondent %d has no id", path, i), nil)
		}
		respondents[i] = rd.ID

		row := make([]domain.AnswerValue, len(questions))
		for col, q := range questions {
			raw, present := rd.Answers[q.ID]
			if !present || raw == nil {
				row[col] = domain.AbsentAnswer()
				continue
			}
			value, err := convertAnswer(q, raw)
			if err != nil {
				return nil, domain.NewDatasetError(fmt.Sprintf(
					"%s: respondent %q, question %q", path, rd.ID, q.ID), err)
			}
			row[col] = value
		}
		matrix[i] = row
	}

	dataset := &domain.Dataset{
		Questions:   questions,
		Respondents: respondents,
		Matrix:      matrix,
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return dataset, nil
}

// convertAnswer coerces a raw decoded value into the answer shape the
// question's type expects.
func convertAnswer(q domain.Question, raw interface{}) (domain.AnswerValue, error) {
	switch q.Type {
	case domain.QuestionNumeric:
		number, err := toFloat(raw)
		if err != nil {
			return domain.AnswerValue{}, err
		}
		return domain.NumberAnswer(number), nil

	case domain.QuestionOrdinal, domain.QuestionSingleChoice:
		text, ok := raw.(string)
		if !ok {
			return domain.AnswerValue{}, fmt.Errorf("expected a string option, got %T", raw)
		}
		if !containsOption(q.Options, text) {
			return domain.AnswerValue{}, fmt.Errorf("option %q is not declared for the question", text)
		}
		return domain.TextAnswer(text), nil

	case domain.QuestionMultiChoice:
		items, ok := raw.([]interface{})
		if !ok {
			return domain.AnswerValue{}, fmt.Errorf("expected a list of options, got %T", raw)
		}
		options := make([]string, 0, len(items))
		for _, item := range items {
			text, ok := item.(string)
			if !ok {
				return domain.AnswerValue{}, fmt.Errorf("expected a string option, got %T", item)
			}
			if !containsOption(q.Options, text) {
				return domain.AnswerValue{}, fmt.Errorf("option %q is not declared for the question", text)
			}
			options = append(options, text)
		}
		return domain.OptionsAnswer(options), nil

	case domain.QuestionFreeText:
		text, ok := raw.(string)
		if !ok {
			return domain.AnswerValue{}, fmt.Errorf("expected text, got %T", raw)
		}
		return domain.TextAnswer(text), nil

	default:
		return domain.AnswerValue{}, fmt.Errorf("unsupported question type %v", q.Type)
	}
}

// toFloat accepts the numeric shapes JSON and YAML decoders produce.
func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
