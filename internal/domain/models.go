package domain

import (
	"sort"
	"time"
)

// CategoryID identifies one of the result categories a quiz ranks.
type CategoryID int

// Category is a job/facility type the quiz can recommend.
type Category struct {
	ID      CategoryID `json:"id"`
	Name    string     `json:"name"`
	Message string     `json:"message,omitempty"` // shown when the category is primary
}

// QuestionID identifies a question, e.g. "Q1".
type QuestionID string

// AnswerCode is one of the two option codes of a question.
type AnswerCode string

const (
	AnswerA AnswerCode = "A"
	AnswerB AnswerCode = "B"
)

// Option is one of the two choices of a question.
type Option struct {
	Code AnswerCode `json:"code"`
	Text string     `json:"text"`
}

// Question is a binary-choice prompt.
type Question struct {
	ID      QuestionID `json:"id"`
	Title   string     `json:"title"`
	Options []Option   `json:"options"`
}

// HasOption reports whether code is one of the question's option codes.
func (q Question) HasOption(code AnswerCode) bool {
	for _, opt := range q.Options {
		if opt.Code == code {
			return true
		}
	}
	return false
}

// RuleKey addresses a single rule of the scoring table.
type RuleKey struct {
	Question QuestionID
	Answer   AnswerCode
}

// Rule awards one point to every target category when Answer is chosen for Question.
type Rule struct {
	Question QuestionID   `json:"question"`
	Answer   AnswerCode   `json:"answer"`
	Targets  []CategoryID `json:"targets"`
}

// Key returns the lookup key of the rule.
func (r Rule) Key() RuleKey {
	return RuleKey{Question: r.Question, Answer: r.Answer}
}

// Quiz is a complete quiz definition: categories, questions and the scoring table.
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Categories      []Category `json:"categories"`
	Questions       []Question `json:"questions"`
	Rules           []Rule     `json:"rules"`
	FallbackMessage string     `json:"fallbackMessage,omitempty"`
	AllTiedMessage  string     `json:"allTiedMessage,omitempty"`
}

// MessageFor picks the first primary category carrying its own message,
// falling back to the quiz-wide one.
func (q Quiz) MessageFor(primary []Category) string {
	for _, c := range primary {
		if c.Message != "" {
			return c.Message
		}
	}
	return q.FallbackMessage
}

// AnswerSet maps each question to the chosen answer code. An empty code counts as
// unanswered. It lives for one submission only.
type AnswerSet map[QuestionID]AnswerCode

// Missing lists the questions without an answer, in question order.
func (a AnswerSet) Missing(questions []Question) []QuestionID {
	var missing []QuestionID
	for _, q := range questions {
		if a[q.ID] == "" {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Invalid lists answers that no option of the quiz accepts: unknown codes in question
// order, then answers to questions the quiz does not have, sorted by ID.
func (a AnswerSet) Invalid(questions []Question) []QuestionID {
	var invalid []QuestionID
	known := make(map[QuestionID]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
		if code := a[q.ID]; code != "" && !q.HasOption(code) {
			invalid = append(invalid, q.ID)
		}
	}

	var unknown []QuestionID
	for id := range a {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(invalid, unknown...)
}

// ScoreBoard holds the tally of every category for one scoring call.
type ScoreBoard map[CategoryID]int

// RankEntry pairs a category with its score.
type RankEntry struct {
	Score    int      `json:"score"`
	Category Category `json:"category"`
}

// RankedResult is ordered by score descending, ties in category order.
type RankedResult []RankEntry

// RunnerUp is a category shown below the primary tier with its compressed display rank.
type RunnerUp struct {
	Rank     int      `json:"rank"`
	Score    int      `json:"score"`
	Category Category `json:"category"`
}

// Diagnosis is the outcome of one quiz submission.
type Diagnosis struct {
	ID        string       `json:"id"`
	QuizID    string       `json:"quizId"`
	TopScore  int          `json:"topScore"`
	Primary   []Category   `json:"primary"`
	RunnersUp []RunnerUp   `json:"runnersUp"`
	AllTied   bool         `json:"allTied"`
	Ranking   RankedResult `json:"ranking"`
	Message   string       `json:"message,omitempty"`
	Notice    string       `json:"notice,omitempty"` // set when every category tied
	CreatedAt time.Time    `json:"createdAt"`
}

// DistributionEntry counts how often a category came out primary.
type DistributionEntry struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Distribution is the running tally of primary categories for a quiz.
type Distribution struct {
	QuizID    string              `json:"quizId"`
	Total     int                 `json:"total"`
	Entries   []DistributionEntry `json:"entries"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
