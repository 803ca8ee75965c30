package scoring

import (
	"fmt"
	"sort"
	"sync"

	"caregiver-aptitude-service/internal/domain"
)

// Table is a compiled, read-only scoring table. It is safe for concurrent use.
type Table struct {
	categories []domain.Category
	rules      map[domain.RuleKey][]domain.CategoryID
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table for the built-in quiz.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(DefaultQuiz())
		if err != nil {
			panic(fmt.Sprintf("built-in quiz is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// NewTable compiles a quiz definition. Categories are ordered by ID, which fixes the
// tie-break order of Rank.
func NewTable(quiz domain.Quiz) (*Table, error) {
	if len(quiz.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrInvalidQuiz)
	}

	categories := append([]domain.Category(nil), quiz.Categories...)
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})

	known := make(map[domain.CategoryID]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := known[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %d", domain.ErrInvalidQuiz, c.ID)
		}
		known[c.ID] = struct{}{}
	}

	rules := make(map[domain.RuleKey][]domain.CategoryID, len(quiz.Rules))
	for _, r := range quiz.Rules {
		if _, dup := rules[r.Key()]; dup {
			return nil, fmt.Errorf("%w: duplicate rule %s/%s", domain.ErrInvalidQuiz, r.Question, r.Answer)
		}
		for _, target := range r.Targets {
			if _, ok := known[target]; !ok {
				return nil, fmt.Errorf("%w: rule %s/%s targets unknown category %d", domain.ErrInvalidQuiz, r.Question, r.Answer, target)
			}
		}
		rules[r.Key()] = append([]domain.CategoryID(nil), r.Targets...)
	}

	return &Table{categories: categories, rules: rules}, nil
}

// Categories returns the categories in ID order.
func (t *Table) Categories() []domain.Category {
	return append([]domain.Category(nil), t.categories...)
}

// Targets returns the categories awarded a point for the given question and answer.
// Matching is exact.
func (t *Table) Targets(key domain.RuleKey) ([]domain.CategoryID, bool) {
	targets, ok := t.rules[key]
	if !ok {
		return nil, false
	}
	return append([]domain.CategoryID(nil), targets...), true
}

// lookup resolves the targets for a submitted answer. Unknown question/answer
// combinations score nothing instead of failing; tighten here if that ever needs
// to become an error.
func (t *Table) lookup(question domain.QuestionID, answer domain.AnswerCode) []domain.CategoryID {
	return t.rules[domain.RuleKey{Question: question, Answer: answer}]
}
