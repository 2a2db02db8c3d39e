package catalog

import (
	"fmt"

	"swag-quiz-service/internal/domain"
)

// Catalog is a frozen, ordered set of questions. The zero value is an empty catalog.
type Catalog struct {
	questions []domain.Question
	index     map[int]int
}

// New validates questions and returns a catalog holding its own copy of them.
func New(questions []domain.Question) (Catalog, error) {
	c := Catalog{
		questions: make([]domain.Question, 0, len(questions)),
		index:     make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		if q.ID <= 0 {
			return Catalog{}, fmt.Errorf("%w: question at position %d has non-positive id %d", domain.ErrInvalidCatalog, i, q.ID)
		}
		if _, dup := c.index[q.ID]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate question id %d", domain.ErrInvalidCatalog, q.ID)
		}
		if len(q.Options) < 2 {
			return Catalog{}, fmt.Errorf("%w: question %d has %d options", domain.ErrInvalidCatalog, q.ID, len(q.Options))
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return Catalog{}, fmt.Errorf("%w: question %d correct option %d out of range", domain.ErrInvalidCatalog, q.ID, q.CorrectOption)
		}
		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, copyQuestion(q))
	}
	return c, nil
}

// MustNew is New for build-time catalog content; it panics on invalid input.
func MustNew(questions []domain.Question) Catalog {
	c, err := New(questions)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Catalog) Len() int {
	return len(c.questions)
}

// Questions returns the questions in catalog order. The slice is a copy.
func (c Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = copyQuestion(q)
	}
	return out
}

// Each calls fn for every question in catalog order without copying.
// fn must not modify the question's options.
func (c Catalog) Each(fn func(domain.Question)) {
	for _, q := range c.questions {
		fn(q)
	}
}

func (c Catalog) Lookup(id int) (domain.Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Question{}, false
	}
	return copyQuestion(c.questions[i]), true
}

// Public strips answers and explanations for display before the quiz is taken.
func (c Catalog) Public() []domain.PublicQuestion {
	out := make([]domain.PublicQuestion, len(c.questions))
	for i, q := range c.questions {
		out[i] = domain.PublicQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Options: append([]string(nil), q.Options...),
		}
	}
	return out
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
