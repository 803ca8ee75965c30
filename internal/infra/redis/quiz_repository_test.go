package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/infra/memory"
	"caregiver-aptitude-service/internal/scoring"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(scoring.DefaultQuiz())}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)

	if _, err := repo.GetQuiz(context.Background(), scoring.DefaultQuizID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls.Load())
	}
	if !mr.Exists("quiz:" + scoring.DefaultQuizID + ":doc") {
		t.Fatalf("expected quiz document cached")
	}

	// Second call should hit cache, loader not incremented.
	quiz, err := repo.GetQuiz(context.Background(), scoring.DefaultQuizID)
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls.Load())
	}
	if len(quiz.Rules) != len(scoring.Rules) {
		t.Fatalf("expected cached rules intact, got %d", len(quiz.Rules))
	}
}

func TestQuizRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(scoring.DefaultQuiz())}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)

	_, _ = repo.GetQuiz(context.Background(), scoring.DefaultQuizID)
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), scoring.DefaultQuizID)

	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls.Load())
	}
}

func TestQuizRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("quiz:"+scoring.DefaultQuizID+":doc", `{"id":`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(scoring.DefaultQuiz())}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)

	if _, err := repo.GetQuiz(context.Background(), scoring.DefaultQuizID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader fallback, calls=%d", loader.calls.Load())
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuizRepository(newClient(mr), memory.NewStaticQuizLoader(), time.Minute, nil)
	if _, err := repo.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls.Add(1)
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
