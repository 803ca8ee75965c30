package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"caregiver-aptitude-service/internal/domain"
)

type diagnosisRow struct {
	bun.BaseModel `bun:"table:diagnoses"`

	ID         string    `bun:"id,pk"`
	QuizID     string    `bun:"quiz_id,notnull"`
	TopScore   int       `bun:"top_score,notnull"`
	PrimaryIDs []int     `bun:"primary_ids,array"`
	AllTied    bool      `bun:"all_tied,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

// ResultStore records diagnosis outcomes in Postgres. Answers are not stored.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Record(ctx context.Context, diagnosis domain.Diagnosis) error {
	row := diagnosisRow{
		ID:         diagnosis.ID,
		QuizID:     diagnosis.QuizID,
		TopScore:   diagnosis.TopScore,
		PrimaryIDs: make([]int, 0, len(diagnosis.Primary)),
		AllTied:    diagnosis.AllTied,
		CreatedAt:  diagnosis.CreatedAt,
	}
	for _, c := range diagnosis.Primary {
		row.PrimaryIDs = append(row.PrimaryIDs, int(c.ID))
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert diagnosis: %w", err)
	}
	return nil
}

func (s *ResultStore) Counts(ctx context.Context, quizID string) (map[domain.CategoryID]int, int, error) {
	var rows []struct {
		CategoryID int `bun:"category_id"`
		Count      int `bun:"count"`
	}
	err := s.db.NewSelect().
		TableExpr("diagnoses AS d, unnest(d.primary_ids) AS category_id").
		ColumnExpr("category_id").
		ColumnExpr("count(*) AS count").
		Where("d.quiz_id = ?", quizID).
		GroupExpr("category_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("count primary categories: %w", err)
	}

	total, err := s.db.NewSelect().Model((*diagnosisRow)(nil)).Where("quiz_id = ?", quizID).Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count diagnoses: %w", err)
	}

	counts := make(map[domain.CategoryID]int, len(rows))
	for _, r := range rows {
		counts[domain.CategoryID(r.CategoryID)] = r.Count
	}
	return counts, total, nil
}
