package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caregiver-aptitude-service/internal/domain"
)

func TestRuleTableCoversEveryOption(t *testing.T) {
	require.Len(t, Categories, 10)
	require.Len(t, Questions, 10)

	for _, q := range Questions {
		require.Len(t, q.Options, 2, q.ID)
		for _, opt := range q.Options {
			targets, ok := Default().Targets(domain.RuleKey{Question: q.ID, Answer: opt.Code})
			assert.True(t, ok, "%s/%s", q.ID, opt.Code)
			assert.NotEmpty(t, targets)
		}
	}
	assert.Len(t, Rules, 20)
}

func TestTargetsIsExactMatch(t *testing.T) {
	table := Default()

	targets, ok := table.Targets(domain.RuleKey{Question: "Q8", Answer: domain.AnswerA})
	require.True(t, ok)
	assert.Equal(t, []domain.CategoryID{SpecialNursingHome, PaidNursingHome, HealthFacility}, targets)

	_, ok = table.Targets(domain.RuleKey{Question: "q8", Answer: domain.AnswerA})
	assert.False(t, ok)
	_, ok = table.Targets(domain.RuleKey{Question: "Q8", Answer: "a"})
	assert.False(t, ok)
}

func TestTargetsReturnsCopy(t *testing.T) {
	table := Default()
	key := domain.RuleKey{Question: "Q2", Answer: domain.AnswerA}

	targets, _ := table.Targets(key)
	targets[0] = ServicedHousing

	again, _ := table.Targets(key)
	assert.Equal(t, []domain.CategoryID{Manager}, again)
}

func TestDefaultQuizMatchesRules(t *testing.T) {
	quiz := DefaultQuiz()

	assert.Equal(t, DefaultQuizID, quiz.ID)
	require.Len(t, quiz.Rules, len(Rules))
	for _, r := range quiz.Rules {
		assert.Equal(t, Rules[r.Key()], r.Targets)
	}
	assert.NotEmpty(t, quiz.FallbackMessage)
	assert.NotEmpty(t, quiz.AllTiedMessage)
}

func TestNewTableSortsCategories(t *testing.T) {
	quiz := domain.Quiz{
		Categories: []domain.Category{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		Rules:      []domain.Rule{{Question: "Q1", Answer: domain.AnswerA, Targets: []domain.CategoryID{2, 3}}},
	}
	table, err := NewTable(quiz)
	require.NoError(t, err)

	ranked := table.Rank(table.ComputeScores(domain.AnswerSet{"Q1": domain.AnswerA}))
	got := make([]domain.CategoryID, len(ranked))
	for i, e := range ranked {
		got[i] = e.Category.ID
	}
	assert.Equal(t, []domain.CategoryID{2, 3, 1}, got)
}

func TestNewTableRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		quiz domain.Quiz
	}{
		{
			name: "no categories",
			quiz: domain.Quiz{},
		},
		{
			name: "duplicate category",
			quiz: domain.Quiz{Categories: []domain.Category{{ID: 1}, {ID: 1}}},
		},
		{
			name: "unknown target",
			quiz: domain.Quiz{
				Categories: []domain.Category{{ID: 1}},
				Rules:      []domain.Rule{{Question: "Q1", Answer: domain.AnswerA, Targets: []domain.CategoryID{2}}},
			},
		},
		{
			name: "duplicate rule",
			quiz: domain.Quiz{
				Categories: []domain.Category{{ID: 1}},
				Rules: []domain.Rule{
					{Question: "Q1", Answer: domain.AnswerA, Targets: []domain.CategoryID{1}},
					{Question: "Q1", Answer: domain.AnswerA, Targets: []domain.CategoryID{1}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.quiz)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidQuiz)
		})
	}
}

func TestManagerMessageKeepsWording(t *testing.T) {
	msg := Categories[0].Message
	assert.Contains(t, msg, "感情的に安定し、組織の指示に従い、人当たりが良い")
	assert.Contains(t, msg, "弊社が求める拠点長の特性を特に満たしています。")
	assert.Contains(t, msg, "組織の調和と運営を重視する働き方が最適です。")
	assert.Equal(t, msg, DefaultQuiz().MessageFor([]domain.Category{Categories[0]}))
}
