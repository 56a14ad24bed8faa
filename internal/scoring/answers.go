package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

// ErrInvalidAnswer is returned when a recorded value lies outside its
// question's domain. The engine rejects such input rather than guessing a
// score for it.
var ErrInvalidAnswer = errors.New("scoring: invalid answer")

// AnswerSet maps question id to the raw value the respondent chose: "1".."5"
// for scaled questions, the verbatim option text otherwise. An absent key
// means the question is unanswered.
type AnswerSet map[string]string

// Set records an answer, replacing any earlier answer for the same id.
func (a AnswerSet) Set(questionID, value string) { a[questionID] = value }

// Get returns the recorded answer and whether one exists.
func (a AnswerSet) Get(questionID string) (string, bool) {
	v, ok := a[questionID]
	return v, ok
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ValidateAnswer checks one raw value against the domain of q.
func ValidateAnswer(q catalog.Question, value string) error {
	switch q.Type {
	case catalog.TypeScaled:
		if _, err := parseScale(value); err != nil {
			return fmt.Errorf("%w: question %q: %v", ErrInvalidAnswer, q.ID, err)
		}
		return nil
	case catalog.TypeSingleChoice, catalog.TypeBinary:
		if _, ok := q.Option(value); !ok {
			return fmt.Errorf("%w: question %q: %q is not one of the listed options", ErrInvalidAnswer, q.ID, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: question %q has unknown type %q", catalog.ErrConfig, q.ID, q.Type)
	}
}

// ValidateAnswers checks every entry of answers against c. An answer for a
// question id the catalog does not contain is also rejected.
func ValidateAnswers(answers AnswerSet, c *catalog.Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", catalog.ErrConfig)
	}
	for _, q := range c.Questions() {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		if err := ValidateAnswer(q, v); err != nil {
			return err
		}
	}
	var unknown []string
	for id := range answers {
		if _, ok := c.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown question %q", ErrInvalidAnswer, unknown[0])
	}
	return nil
}

// parseScale accepts exactly the strings "1" through "5".
func parseScale(value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || strconv.Itoa(v) != value {
		return 0, fmt.Errorf("%q is not a whole number", value)
	}
	if v < catalog.ScaleMin || v > catalog.ScaleMax {
		return 0, fmt.Errorf("%d out of range [%d,%d]", v, catalog.ScaleMin, catalog.ScaleMax)
	}
	return v, nil
}
