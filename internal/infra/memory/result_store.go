package memory

import (
	"context"
	"encoding/json"
	"sync"

	"swag-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore. Contents live
// as long as the process.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.StoredResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]domain.StoredResult),
	}
}

func (s *ResultStore) Put(_ context.Context, id string, result domain.StoredResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = cloneStored(result)
	return nil
}

func (s *ResultStore) Get(_ context.Context, id string) (domain.StoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	return cloneStored(result), nil
}

func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// cloneStored copies the answer records, their selections and the lead payload
// so callers never share memory with the stored entry.
func cloneStored(r domain.StoredResult) domain.StoredResult {
	if r.Result.Answers != nil {
		answers := make([]domain.AnswerRecord, len(r.Result.Answers))
		for i, a := range r.Result.Answers {
			if a.Selected != nil {
				selected := *a.Selected
				a.Selected = &selected
			}
			answers[i] = a
		}
		r.Result.Answers = answers
	}
	if r.LeadData != nil {
		r.LeadData = append(json.RawMessage(nil), r.LeadData...)
	}
	return r
}
