package scoring_test

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
	"swag-quiz-service/internal/scoring"
)

func TestScoreScenarios(t *testing.T) {
	c := catalog.Default()

	cases := []struct {
		name       string
		correct    int
		percentage int
		passed     bool
	}{
		{name: "all correct", correct: 12, percentage: 100, passed: true},
		{name: "ten of twelve", correct: 10, percentage: 83, passed: true},
		{name: "nine of twelve", correct: 9, percentage: 75, passed: false},
		{name: "none correct", correct: 0, percentage: 0, passed: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := scoring.Score(c, answersWithCorrect(c, tc.correct))
			if result.Score != tc.correct || result.CorrectAnswers != tc.correct {
				t.Fatalf("expected score %d, got %+v", tc.correct, result)
			}
			if result.TotalQuestions != 12 {
				t.Fatalf("expected 12 total questions, got %d", result.TotalQuestions)
			}
			if result.Percentage != tc.percentage || result.Passed != tc.passed {
				t.Fatalf("expected %d%% passed=%v, got %d%% passed=%v", tc.percentage, tc.passed, result.Percentage, result.Passed)
			}
		})
	}
}

func TestOmittedAnswersMatchExplicitWrongAnswers(t *testing.T) {
	c := catalog.Default()
	omitted := answersWithCorrect(c, 12)
	explicit := answersWithCorrect(c, 12)
	for _, id := range []int{2, 5, 11} {
		delete(omitted, id)
		q, _ := c.Lookup(id)
		explicit[id] = (q.CorrectOption + 1) % len(q.Options)
	}

	a := scoring.Score(c, omitted)
	b := scoring.Score(c, explicit)
	if a.Score != 9 || a.Score != b.Score || a.Percentage != b.Percentage || a.Passed != b.Passed {
		t.Fatalf("expected identical 9/12 outcomes, got %+v and %+v", a, b)
	}
	for i := range a.Answers {
		if a.Answers[i].IsCorrect != b.Answers[i].IsCorrect {
			t.Fatalf("answer %d differs: %+v vs %+v", i, a.Answers[i], b.Answers[i])
		}
	}
	if a.Answers[1].Selected != nil {
		t.Fatalf("expected unanswered question to have no selection, got %d", *a.Answers[1].Selected)
	}
}

func TestEmptySubmission(t *testing.T) {
	for _, submission := range []domain.Submission{nil, {}} {
		result := scoring.Score(catalog.Default(), submission)
		if result.Score != 0 || result.Percentage != 0 || result.Passed {
			t.Fatalf("expected zero failing result, got %+v", result)
		}
		if len(result.Answers) != 12 {
			t.Fatalf("expected 12 answer records, got %d", len(result.Answers))
		}
	}
}

func TestStaleAndOutOfRangeAnswersAreIncorrect(t *testing.T) {
	c := catalog.MustNew([]domain.Question{
		{ID: 1, Options: []string{"a", "b"}, CorrectOption: 0},
		{ID: 2, Options: []string{"a", "b"}, CorrectOption: 1},
	})
	result := scoring.Score(c, domain.Submission{1: 7, 2: -1, 99: 0})
	if result.Score != 0 {
		t.Fatalf("expected no correct answers, got %d", result.Score)
	}
	if got := *result.Answers[0].Selected; got != 7 {
		t.Fatalf("expected out-of-range selection recorded as given, got %d", got)
	}
	if len(result.Answers) != 2 {
		t.Fatalf("stale question id leaked into answers: %+v", result.Answers)
	}
}

func TestEmptyCatalog(t *testing.T) {
	result := scoring.Score(catalog.Catalog{}, domain.Submission{1: 1})
	if result.TotalQuestions != 0 || result.Percentage != 0 || result.Passed {
		t.Fatalf("unexpected result for empty catalog: %+v", result)
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	cases := []struct{ score, total, want int }{
		{1, 8, 13}, // 12.5
		{3, 8, 38}, // 37.5
		{1, 3, 33},
		{2, 3, 67},
		{10, 12, 83},
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := scoring.Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestScoreProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		c := randomCatalog(rnd)
		submission := randomSubmission(rnd)

		first := scoring.Score(c, submission)
		second := scoring.Score(c, submission)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("scoring is not deterministic: %+v vs %+v", first, second)
		}
		if first.Percentage < 0 || first.Percentage > 100 {
			t.Fatalf("percentage out of range: %d", first.Percentage)
		}
		if first.Score < 0 || first.Score > first.TotalQuestions {
			t.Fatalf("score out of range: %d/%d", first.Score, first.TotalQuestions)
		}
		if first.Passed != (first.Percentage >= domain.PassingThreshold) {
			t.Fatalf("pass flag inconsistent: %+v", first)
		}
		if len(first.Answers) != first.TotalQuestions || first.TotalQuestions != c.Len() {
			t.Fatalf("expected %d answers, got %d", c.Len(), len(first.Answers))
		}
		for i, q := range c.Questions() {
			if first.Answers[i].QuestionID != q.ID {
				t.Fatalf("answers not in catalog order at %d", i)
			}
		}
	}
}

func TestMessage(t *testing.T) {
	passed := scoring.Message(domain.Result{Percentage: 83, Passed: true})
	if !passed.ShowSwagMessage || !strings.Contains(passed.Message, "83%") {
		t.Fatalf("unexpected passing message %+v", passed)
	}
	failed := scoring.Message(domain.Result{Percentage: 75})
	if failed.ShowSwagMessage || !strings.Contains(failed.Message, "80% threshold") {
		t.Fatalf("unexpected failing message %+v", failed)
	}
}

func TestReview(t *testing.T) {
	c := catalog.Default()
	result := scoring.Score(c, domain.Submission{4: 2})
	review := scoring.Review(c, result)
	if len(review) != 12 {
		t.Fatalf("expected 12 review entries, got %d", len(review))
	}
	entry := review[3]
	if entry.QuestionID != 4 || !entry.IsCorrect || entry.CorrectOption != 2 || entry.Explanation == "" {
		t.Fatalf("unexpected review entry %+v", entry)
	}
}

func answersWithCorrect(c catalog.Catalog, n int) domain.Submission {
	submission := make(domain.Submission)
	for i, q := range c.Questions() {
		if i < n {
			submission[q.ID] = q.CorrectOption
		} else {
			submission[q.ID] = (q.CorrectOption + 1) % len(q.Options)
		}
	}
	return submission
}

func randomCatalog(rnd *rand.Rand) catalog.Catalog {
	n := rnd.Intn(20)
	questions := make([]domain.Question, n)
	for i := range questions {
		options := 2 + rnd.Intn(4)
		questions[i] = domain.Question{
			ID:            i + 1,
			Options:       make([]string, options),
			CorrectOption: rnd.Intn(options),
		}
	}
	return catalog.MustNew(questions)
}

func randomSubmission(rnd *rand.Rand) domain.Submission {
	submission := make(domain.Submission)
	n := rnd.Intn(25)
	for i := 0; i < n; i++ {
		submission[rnd.Intn(25)] = rnd.Intn(8) - 2
	}
	return submission
}
