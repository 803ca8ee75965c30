package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrIncompleteAnswers is returned when a submission leaves questions unanswered.
	ErrIncompleteAnswers = errors.New("all questions must be answered")
	// ErrInvalidAnswers is returned when a submission uses codes or questions the quiz does not know.
	ErrInvalidAnswers = errors.New("answers do not match the quiz")
	// ErrInvalidQuiz indicates a quiz definition failed validation.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
)

// IncompleteAnswersError lists the questions left unanswered.
type IncompleteAnswersError struct {
	Missing []QuestionID
}

func (e *IncompleteAnswersError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = string(id)
	}
	return fmt.Sprintf("%s: missing %s", ErrIncompleteAnswers, strings.Join(ids, ", "))
}

func (e *IncompleteAnswersError) Unwrap() error {
	return ErrIncompleteAnswers
}

// InvalidAnswersError lists the questions whose answers the quiz cannot score.
type InvalidAnswersError struct {
	Invalid []QuestionID
}

func (e *InvalidAnswersError) Error() string {
	ids := make([]string, len(e.Invalid))
	for i, id := range e.Invalid {
		ids[i] = string(id)
	}
	return fmt.Sprintf("%s: invalid %s", ErrInvalidAnswers, strings.Join(ids, ", "))
}

func (e *InvalidAnswersError) Unwrap() error {
	return ErrInvalidAnswers
}
