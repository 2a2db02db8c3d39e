// Package scoring turns a submission into a Result. Everything here is pure.
package scoring

import (
	"fmt"

	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
)

// Score grades a submission against the catalog, one AnswerRecord per question
// in catalog order. Missing answers, unknown question ids and out-of-range
// indices are never errors; they simply don't count as correct.
func Score(c catalog.Catalog, submission domain.Submission) domain.Result {
	answers := make([]domain.AnswerRecord, 0, c.Len())
	correct := 0

	c.Each(func(q domain.Question) {
		record := domain.AnswerRecord{QuestionID: q.ID}
		if selected, ok := submission[q.ID]; ok {
			record.Selected = &selected
			record.IsCorrect = selected == q.CorrectOption
		}
		if record.IsCorrect {
			correct++
		}
		answers = append(answers, record)
	})

	total := c.Len()
	percentage := Percentage(correct, total)
	return domain.Result{
		Score:          correct,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Passed:         percentage >= domain.PassingThreshold,
		Answers:        answers,
	}
}

// Percentage is 100*score/total rounded to the nearest integer, halves up.
// An empty catalog scores 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// Message returns the headline copy for a result.
func Message(r domain.Result) domain.ResultMessage {
	if r.Passed {
		return domain.ResultMessage{
			Title:           "🎉 Congratulations!",
			Message:         fmt.Sprintf("You scored %d%% and demonstrated excellent incident management knowledge. You've earned free incident.io SWAG!", r.Percentage),
			ShowSwagMessage: true,
		}
	}
	return domain.ResultMessage{
		Title:   "Thanks for participating!",
		Message: fmt.Sprintf("You scored %d%%. While you didn't reach the %d%% threshold for SWAG this time, we hope you learned something valuable about incident management best practices.", r.Percentage, domain.PassingThreshold),
	}
}

// Review joins a stored result with the catalog so respondents can see the
// correct answers and explanations. Answers for questions no longer in the
// catalog are skipped.
func Review(c catalog.Catalog, r domain.Result) []domain.AnswerReview {
	out := make([]domain.AnswerReview, 0, len(r.Answers))
	for _, a := range r.Answers {
		q, ok := c.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		out = append(out, domain.AnswerReview{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Options:       q.Options,
			Selected:      a.Selected,
			CorrectOption: q.CorrectOption,
			IsCorrect:     a.IsCorrect,
			Explanation:   q.Explanation,
		})
	}
	return out
}
