package memory

import (
	"context"
	"sync"

	"caregiver-aptitude-service/internal/domain"
)

// ResultStore keeps primary-category counts in process memory.
type ResultStore struct {
	mu     sync.RWMutex
	counts map[string]map[domain.CategoryID]int
	totals map[string]int
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		counts: make(map[string]map[domain.CategoryID]int),
		totals: make(map[string]int),
	}
}

func (s *ResultStore) Record(_ context.Context, diagnosis domain.Diagnosis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.counts[diagnosis.QuizID]
	if !ok {
		counts = make(map[domain.CategoryID]int)
		s.counts[diagnosis.QuizID] = counts
	}
	for _, c := range diagnosis.Primary {
		counts[c.ID]++
	}
	s.totals[diagnosis.QuizID]++
	return nil
}

func (s *ResultStore) Counts(_ context.Context, quizID string) (map[domain.CategoryID]int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.CategoryID]int, len(s.counts[quizID]))
	for id, n := range s.counts[quizID] {
		out[id] = n
	}
	return out, s.totals[quizID], nil
}
