package service

import (
	"github.com/cohort-labs/cohort/domain"
)

// BuildDatasetDocument converts a dataset back into the portable document
// shape ReadDataset parses. The impute command uses it to re-emit a filled
// dataset that cluster and sweep can consume directly.
func BuildDatasetDocument(dataset *domain.Dataset) *DatasetDocument {
	questions := make([]QuestionDocument, len(dataset.Questions))
	for i, q := range dataset.Questions {
		qd := QuestionDocument{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type.String(),
			Options: q.Options,
		}
		if q.Type == domain.QuestionNumeric {
			min, max := q.Min, q.Max
			qd.Min = &min
			qd.Max = &max
		}
		questions[i] = qd
	}

	respondents := make([]RespondentDocument, len(dataset.Respondents))
	for i, id := range dataset.Respondents {
		answers := make(map[string]interface{}, len(dataset.Questions))
		for col, q := range dataset.Questions {
			cell := dataset.Matrix[i][col]
			if cell.Absent() {
				continue
			}
			switch q.Type {
			case domain.QuestionNumeric:
				answers[q.ID] = cell.Number
			case domain.QuestionMultiChoice:
				options := cell.Options
				if options == nil {
					options = []string{}
				}
				answers[q.ID] = options
			default:
				answers[q.ID] = cell.Text
			}
		}
		respondents[i] = RespondentDocument{ID: id, Answers: answers}
	}

	return &DatasetDocument{Questions: questions, Respondents: respondents}
}
