package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"caregiver-aptitude-service/internal/domain"
)

// ResultStore keeps primary-category counters in Redis so every instance shares them.
// Counters are stored as:
//
//	HINCRBY quiz:{quizID}:primary {categoryID} 1
//	INCR    quiz:{quizID}:total
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) Record(ctx context.Context, diagnosis domain.Diagnosis) error {
	pipe := s.client.TxPipeline()
	for _, c := range diagnosis.Primary {
		pipe.HIncrBy(ctx, s.primaryKey(diagnosis.QuizID), strconv.Itoa(int(c.ID)), 1)
	}
	pipe.Incr(ctx, s.totalKey(diagnosis.QuizID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment counters: %w", err)
	}
	return nil
}

func (s *ResultStore) Counts(ctx context.Context, quizID string) (map[domain.CategoryID]int, int, error) {
	raw, err := s.client.HGetAll(ctx, s.primaryKey(quizID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("read counters: %w", err)
	}

	counts := make(map[domain.CategoryID]int, len(raw))
	for field, value := range raw {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		counts[domain.CategoryID(id)] = n
	}

	total, err := s.client.Get(ctx, s.totalKey(quizID)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("read total: %w", err)
	}
	return counts, total, nil
}

func (s *ResultStore) primaryKey(quizID string) string {
	return "quiz:" + quizID + ":primary"
}

func (s *ResultStore) totalKey(quizID string) string {
	return "quiz:" + quizID + ":total"
}
