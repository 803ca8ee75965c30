package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/scoring"
)

// NewScoreCmd scores an answer set against the built-in quiz without touching any store.
func NewScoreCmd() *cobra.Command {
	var raw map[string]string
	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score answers offline against the built-in quiz",
		Example: "  aptitude-service score --answers Q1=A,Q2=B,Q3=A,Q4=B,Q5=B,Q6=B,Q7=A,Q8=A,Q9=B,Q10=B",
		RunE: func(cmd *cobra.Command, args []string) error {
			quiz := scoring.DefaultQuiz()
			answers, err := parseAnswers(raw, quiz.Questions)
			if err != nil {
				return err
			}
			if missing := answers.Missing(quiz.Questions); len(missing) > 0 {
				return &domain.IncompleteAnswersError{Missing: missing}
			}
			printResult(cmd.OutOrStdout(), quiz, scoring.Default().Evaluate(answers))
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&raw, "answers", nil, "answers as QUESTION=CODE pairs, e.g. Q1=A,Q2=B")
	return cmd
}

// parseAnswers normalises the flag pairs and rejects questions or codes the quiz does not know.
func parseAnswers(raw map[string]string, questions []domain.Question) (domain.AnswerSet, error) {
	known := make(map[domain.QuestionID]domain.Question, len(questions))
	for _, q := range questions {
		known[q.ID] = q
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answers := domain.AnswerSet{}
	for _, k := range keys {
		id := domain.QuestionID(strings.ToUpper(strings.TrimSpace(k)))
		code := domain.AnswerCode(strings.ToUpper(strings.TrimSpace(raw[k])))
		q, ok := known[id]
		if !ok {
			return nil, fmt.Errorf("unknown question %q", k)
		}
		if !q.HasOption(code) {
			return nil, fmt.Errorf("question %s has no option %q", id, raw[k])
		}
		answers[id] = code
	}
	return answers, nil
}

func printResult(w io.Writer, quiz domain.Quiz, result scoring.Result) {
	names := make([]string, 0, len(result.Primary))
	for _, c := range result.Primary {
		names = append(names, c.Name)
	}
	fmt.Fprintf(w, "Primary (%d pts): %s\n", result.TopScore, strings.Join(names, ", "))

	if result.AllTied() {
		fmt.Fprintln(w, quiz.AllTiedMessage)
	} else {
		fmt.Fprintln(w, quiz.MessageFor(result.Primary))
	}

	for _, r := range result.RunnersUp {
		fmt.Fprintf(w, "  #%d (%d pts) %s\n", r.Rank, r.Score, r.Category.Name)
	}

	fmt.Fprintln(w, "Ranking:")
	for _, e := range result.Ranking {
		fmt.Fprintf(w, "  %2d  %s\n", e.Score, e.Category.Name)
	}
}
