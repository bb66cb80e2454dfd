package compat

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAnswer means a required question has no value. The engine
	// refuses to score partial answer sets; a silent zero would look like
	// a valid similarity baseline.
	ErrMissingAnswer = errors.New("missing answer")

	// ErrUnknownQuestion means the answer set contains a key outside the
	// fixed Q1..Q23 schema.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidAnswerRange means an answer value falls outside [1, scale].
	// Checked at submission time, not inside the similarity primitive.
	ErrInvalidAnswerRange = errors.New("answer outside scale")
)

// AnswerSet maps every question to its ordinal answer.
type AnswerSet map[QuestionID]int

// Dealbreakers are the three boolean veto flags a user may set.
// A flag combined with a mismatch on its bound question caps the score.
type Dealbreakers struct {
	Kids     bool `json:"kids"`
	Monogamy bool `json:"monogamy"`
	Religion bool `json:"religion"`
}

// Profile is one user's full questionnaire submission: all 23 answers
// plus dealbreaker flags. Immutable once built; replaced wholesale on
// re-submission.
type Profile struct {
	OwnerID      string
	Answers      AnswerSet
	Dealbreakers Dealbreakers
}

// Validate enforces the answer-set invariant: exactly the fixed question
// set, every value within [1, maxScale].
func (a AnswerSet) Validate(maxScale int) error {
	for _, q := range allQuestions {
		v, ok := a[q]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAnswer, q)
		}
		if v < 1 || v > maxScale {
			return fmt.Errorf("%w: %s=%d, scale is [1,%d]", ErrInvalidAnswerRange, q, v, maxScale)
		}
	}

	if len(a) != len(allQuestions) {
		for q := range a {
			if !isKnownQuestion(q) {
				return fmt.Errorf("%w: %s", ErrUnknownQuestion, q)
			}
		}
	}

	return nil
}

func isKnownQuestion(q QuestionID) bool {
	for _, known := range allQuestions {
		if q == known {
			return true
		}
	}
	return false
}
