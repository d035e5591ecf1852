package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// NewQuestionnaire builds one question per gap, most urgent first. Each
// question is estimated at two minutes.
func NewQuestionnaire(gaps []Gap) Questionnaire {
	sorted := slices.Clone(gaps)
	slices.SortStableFunc(sorted, func(a, b Gap) int {
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	})

	questions := make([]Question, 0, len(sorted))
	for i, g := range sorted {
		questions = append(questions, Question{
			ID:       fmt.Sprintf("q_%d", i+1),
			Question: QuestionFor(g),
			GapID:    g.ID,
			Type:     "text",
			Priority: g.Priority,
		})
	}
	return Questionnaire{Questions: questions, EstimatedTime: 2 * len(questions)}
}

// QuestionFor phrases the question that addresses g.
func QuestionFor(g Gap) string {
	switch g.Category {
	case CategorySkill:
		return fmt.Sprintf("Do you have experience with %s? If yes, please describe when and how you used it.", g.Description)
	case CategoryExperience:
		return fmt.Sprintf("Can you provide details about your %s?", g.Description)
	case CategoryEducation:
		return fmt.Sprintf("Do you have any education or training related to %s?", g.Description)
	case CategoryCertification:
		return fmt.Sprintf("Do you have certification in %s? If yes, please provide details.", g.Description)
	case CategorySummary:
		return "How would you summarize your professional profile in two or three sentences?"
	default:
		return fmt.Sprintf("Can you provide information about: %s?", g.Description)
	}
}
