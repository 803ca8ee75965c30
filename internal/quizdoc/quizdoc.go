// Package quizdoc decodes and validates quiz definitions stored as JSON documents.
package quizdoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"caregiver-aptitude-service/internal/domain"
)

//go:embed quiz.schema.json
var schemaJSON []byte

const schemaURL = "schema://quiz.json"

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	compileErr error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse quiz schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add quiz schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Decode parses a quiz document, checking it against the quiz schema and the
// structural rules of Validate.
func Decode(raw []byte) (domain.Quiz, error) {
	sch, err := schema()
	if err != nil {
		return domain.Quiz{}, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuiz, err)
	}
	if err := sch.Validate(doc); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuiz, err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuiz, err)
	}
	if err := Validate(quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Encode renders the canonical JSON form of a quiz.
func Encode(quiz domain.Quiz) ([]byte, error) {
	return json.Marshal(quiz)
}

// Validate checks cross references the schema cannot express: unique IDs, exactly
// two distinct options per question, and rules pointing at known questions, options
// and categories.
func Validate(quiz domain.Quiz) error {
	categories := make(map[domain.CategoryID]struct{}, len(quiz.Categories))
	for _, c := range quiz.Categories {
		if _, dup := categories[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category %d", domain.ErrInvalidQuiz, c.ID)
		}
		categories[c.ID] = struct{}{}
	}

	options := make(map[domain.RuleKey]struct{}, len(quiz.Questions)*2)
	questions := make(map[domain.QuestionID]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if _, dup := questions[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question %s", domain.ErrInvalidQuiz, q.ID)
		}
		questions[q.ID] = struct{}{}

		if len(q.Options) != 2 {
			return fmt.Errorf("%w: question %s has %d options", domain.ErrInvalidQuiz, q.ID, len(q.Options))
		}
		if q.Options[0].Code == q.Options[1].Code {
			return fmt.Errorf("%w: question %s repeats option %s", domain.ErrInvalidQuiz, q.ID, q.Options[0].Code)
		}
		for _, opt := range q.Options {
			options[domain.RuleKey{Question: q.ID, Answer: opt.Code}] = struct{}{}
		}
	}

	seen := make(map[domain.RuleKey]struct{}, len(quiz.Rules))
	for _, r := range quiz.Rules {
		if _, ok := options[r.Key()]; !ok {
			return fmt.Errorf("%w: rule %s/%s has no matching option", domain.ErrInvalidQuiz, r.Question, r.Answer)
		}
		if _, dup := seen[r.Key()]; dup {
			return fmt.Errorf("%w: duplicate rule %s/%s", domain.ErrInvalidQuiz, r.Question, r.Answer)
		}
		seen[r.Key()] = struct{}{}
		for _, target := range r.Targets {
			if _, ok := categories[target]; !ok {
				return fmt.Errorf("%w: rule %s/%s targets unknown category %d", domain.ErrInvalidQuiz, r.Question, r.Answer, target)
			}
		}
	}
	return nil
}
