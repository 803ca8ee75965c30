package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/logger"
	"caregiver-aptitude-service/internal/scoring"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResultRepository records diagnoses and reports how often each category came out primary.
type ResultRepository interface {
	Record(ctx context.Context, diagnosis domain.Diagnosis) error
	Counts(ctx context.Context, quizID string) (counts map[domain.CategoryID]int, total int, err error)
}

// FeedRepository abstracts where distribution feeds live (in-memory, Redis, etc).
type FeedRepository interface {
	GetOrCreate(quizID string) *Feed
	Get(quizID string) (*Feed, bool)
	DeleteIfIdle(quizID string)
}

// DiagnosisService contains the quiz use cases around the scoring engine.
type DiagnosisService struct {
	quizzes QuizRepository
	results ResultRepository
	feeds   FeedRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewDiagnosisService(quizzes QuizRepository, results ResultRepository, feeds FeedRepository, log *zap.Logger) *DiagnosisService {
	return NewDiagnosisServiceWithClock(quizzes, results, feeds, log, time.Now)
}

// NewDiagnosisServiceWithClock is test-only for deterministic timestamps.
func NewDiagnosisServiceWithClock(quizzes QuizRepository, results ResultRepository, feeds FeedRepository, log *zap.Logger, now func() time.Time) *DiagnosisService {
	return &DiagnosisService{
		quizzes: quizzes,
		results: results,
		feeds:   feeds,
		logger:  logger.WithFields(log),
		now:     now,
	}
}

// Quiz returns the quiz definition for rendering.
func (s *DiagnosisService) Quiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Diagnose scores a complete answer set, records the outcome and notifies the quiz feed.
// Answers are only read during the call.
func (s *DiagnosisService) Diagnose(ctx context.Context, quizID string, answers domain.AnswerSet) (domain.Diagnosis, error) {
	log := logger.WithQuiz(s.logger, quizID)

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Diagnosis{}, err
	}

	if missing := answers.Missing(quiz.Questions); len(missing) > 0 {
		log.Debug("rejecting incomplete answers", zap.Int("missing", len(missing)))
		return domain.Diagnosis{}, &domain.IncompleteAnswersError{Missing: missing}
	}
	if invalid := answers.Invalid(quiz.Questions); len(invalid) > 0 {
		log.Debug("rejecting unknown answers", zap.Int("invalid", len(invalid)))
		return domain.Diagnosis{}, &domain.InvalidAnswersError{Invalid: invalid}
	}

	table, err := scoring.NewTable(quiz)
	if err != nil {
		return domain.Diagnosis{}, err
	}
	result := table.Evaluate(answers)

	diagnosis := domain.Diagnosis{
		ID:        uuid.New().String(),
		QuizID:    quizID,
		TopScore:  result.TopScore,
		Primary:   result.Primary,
		RunnersUp: result.RunnersUp,
		AllTied:   result.AllTied(),
		Ranking:   result.Ranking,
		Message:   quiz.MessageFor(result.Primary),
		CreatedAt: s.now(),
	}
	if diagnosis.AllTied {
		diagnosis.Notice = quiz.AllTiedMessage
	}

	if err := s.results.Record(ctx, diagnosis); err != nil {
		log.Error("recording diagnosis", zap.String(logger.FieldDiagnosisID, diagnosis.ID), zap.Error(err))
		return diagnosis, fmt.Errorf("record diagnosis: %w", err)
	}

	log.Info("diagnosis completed",
		zap.String(logger.FieldDiagnosisID, diagnosis.ID),
		zap.Int("top_score", diagnosis.TopScore),
		zap.Int("primary", len(diagnosis.Primary)),
		zap.Bool("all_tied", diagnosis.AllTied),
	)

	s.publish(ctx, quizID, quiz)
	return diagnosis, nil
}

// Distribution reports how often each category of the quiz came out primary.
func (s *DiagnosisService) Distribution(ctx context.Context, quizID string) (domain.Distribution, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Distribution{}, err
	}
	return s.distribution(ctx, quizID, quiz)
}

// Subscribe returns a channel that receives distribution updates for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *DiagnosisService) Subscribe(ctx context.Context, quizID string) (<-chan domain.Distribution, func(), error) {
	dist, err := s.Distribution(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	feed := s.feeds.GetOrCreate(quizID)
	ch, unsubscribe := feed.subscribe(dist)
	cancel := func() {
		unsubscribe()
		s.feeds.DeleteIfIdle(quizID)
	}
	return ch, cancel, nil
}

func (s *DiagnosisService) publish(ctx context.Context, quizID string, quiz domain.Quiz) {
	feed, ok := s.feeds.Get(quizID)
	if !ok {
		return
	}
	dist, err := s.distribution(ctx, quizID, quiz)
	if err != nil {
		logger.WithQuiz(s.logger, quizID).Warn("loading distribution", zap.Error(err))
		return
	}
	feed.broadcast(dist)
}

func (s *DiagnosisService) distribution(ctx context.Context, quizID string, quiz domain.Quiz) (domain.Distribution, error) {
	counts, total, err := s.results.Counts(ctx, quizID)
	if err != nil {
		return domain.Distribution{}, fmt.Errorf("count diagnoses: %w", err)
	}

	entries := make([]domain.DistributionEntry, 0, len(quiz.Categories))
	for _, c := range quiz.Categories {
		entries = append(entries, domain.DistributionEntry{Category: c, Count: counts[c.ID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Category.ID < entries[j].Category.ID
	})

	return domain.Distribution{
		QuizID:    quizID,
		Total:     total,
		Entries:   entries,
		UpdatedAt: s.now(),
	}, nil
}
