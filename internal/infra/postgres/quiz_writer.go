package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/quizdoc"
)

// SaveQuiz upserts a quiz definition into the quizzes table.
func SaveQuiz(ctx context.Context, db bun.IDB, quiz domain.Quiz) error {
	if err := quizdoc.Validate(quiz); err != nil {
		return err
	}
	data, err := quizdoc.Encode(quiz)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO quizzes (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		quiz.ID, string(data))
	if err != nil {
		return fmt.Errorf("save quiz %s: %w", quiz.ID, err)
	}
	return nil
}
