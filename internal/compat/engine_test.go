package compat

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an engine with the production policy.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err, "default config must validate")
	return e
}

// uniformProfile returns a profile answering every question with the same value.
func uniformProfile(owner string, answer int) *Profile {
	answers := make(AnswerSet, 23)
	for _, q := range Questions() {
		answers[q] = answer
	}
	return &Profile{OwnerID: owner, Answers: answers}
}

func TestSimilarity(t *testing.T) {
	t.Run("Symmetry", func(t *testing.T) {
		for _, m := range []int{4, 5} {
			for a := 1; a <= m; a++ {
				for b := 1; b <= m; b++ {
					assert.Equal(t, Similarity(a, b, m), Similarity(b, a, m),
						"similarity must be symmetric for a=%d b=%d m=%d", a, b, m)
				}
			}
		}
	})

	t.Run("Identity", func(t *testing.T) {
		for a := 1; a <= 5; a++ {
			assert.Equal(t, 1.0, Similarity(a, a, 5), "identical answers must score 1.0")
		}
	})

	t.Run("Bounds", func(t *testing.T) {
		for a := 1; a <= 5; a++ {
			for b := 1; b <= 5; b++ {
				s := Similarity(a, b, 5)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
		assert.Equal(t, 0.0, Similarity(1, 5, 5), "maximally distant answers must score 0.0")
		assert.Equal(t, 0.0, Similarity(1, 4, 4))
	})
}

func TestCompositeScoreRange(t *testing.T) {
	e := newTestEngine(t)

	pairs := [][2]*Profile{
		{uniformProfile("a", 1), uniformProfile("b", 1)},
		{uniformProfile("a", 1), uniformProfile("b", 5)},
		{uniformProfile("a", 3), uniformProfile("b", 4)},
		{uniformProfile("a", 2), uniformProfile("b", 5)},
	}

	for _, pair := range pairs {
		score, err := e.CompositeScore(pair[0], pair[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0, "composite must not go below 0")
		assert.LessOrEqual(t, score, 1.0+1e-9, "composite must not exceed 1 beyond float noise")
	}
}

func TestDealbreakerFloor(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.Config()

	cases := []struct {
		name     string
		question QuestionID
		set      func(*Dealbreakers)
	}{
		{"Kids", cfg.KidsQuestion, func(d *Dealbreakers) { d.Kids = true }},
		{"Monogamy", cfg.MonogamyQuestion, func(d *Dealbreakers) { d.Monogamy = true }},
		{"Religion", cfg.ReligionQuestion, func(d *Dealbreakers) { d.Religion = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// All 22 other answers identical; only the dealbreaker question differs.
			a := uniformProfile("a", 4)
			b := uniformProfile("b", 4)
			b.Answers[tc.question] = 5
			tc.set(&a.Dealbreakers)

			score, err := e.CalculateCompatibility(a, b)
			require.NoError(t, err)
			assert.Equal(t, cfg.DealbreakerFloor, score,
				"dealbreaker mismatch must floor the score regardless of overall similarity")
		})
	}

	t.Run("FlagWithoutMismatch", func(t *testing.T) {
		a := uniformProfile("a", 4)
		b := uniformProfile("b", 4)
		a.Dealbreakers.Kids = true

		score, err := e.CalculateCompatibility(a, b)
		require.NoError(t, err)
		assert.NotEqual(t, cfg.DealbreakerFloor, score, "matching answers must not trigger the floor")
	})

	t.Run("OnlyRequestingSideFlagsCount", func(t *testing.T) {
		// The candidate's flags are not consulted. Existing one-directional policy.
		a := uniformProfile("a", 4)
		b := uniformProfile("b", 4)
		b.Answers[cfg.KidsQuestion] = 5
		b.Dealbreakers.Kids = true

		score, err := e.CalculateCompatibility(a, b)
		require.NoError(t, err)
		assert.NotEqual(t, cfg.DealbreakerFloor, score)
	})
}

func TestPenaltyStacking(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.Config()

	a := uniformProfile("a", 4)
	b := uniformProfile("b", 4)

	// Anxious/avoidant pairing plus a love-language mismatch.
	a.Answers[cfg.AttachmentQuestion] = cfg.AnxiousAnswer
	b.Answers[cfg.AttachmentQuestion] = cfg.AvoidantAnswer
	a.Answers[cfg.LoveLanguageQuestion] = 1
	b.Answers[cfg.LoveLanguageQuestion] = 2

	raw, err := e.CompositeScore(a, b)
	require.NoError(t, err)

	final, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)

	expected := raw - cfg.AttachmentPenalty - cfg.LoveLanguagePenalty
	assert.InDelta(t, expected, final, 1e-12, "both penalties must apply additively")
}

func TestPenaltyOrderSymmetric(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.Config()

	// Anxious/avoidant clash applies in either order.
	a := uniformProfile("a", 4)
	b := uniformProfile("b", 4)
	a.Answers[cfg.AttachmentQuestion] = cfg.AvoidantAnswer
	b.Answers[cfg.AttachmentQuestion] = cfg.AnxiousAnswer

	raw, err := e.CompositeScore(a, b)
	require.NoError(t, err)
	final, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)
	assert.InDelta(t, raw-cfg.AttachmentPenalty, final, 1e-12)
}

func TestClampFloor(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.Config()

	// Maximally distant answers with both penalties stacked on top:
	// the raw composite is tiny and the result would go negative.
	a := uniformProfile("a", 1)
	b := uniformProfile("b", 5)
	a.Answers[cfg.AttachmentQuestion] = cfg.AnxiousAnswer
	b.Answers[cfg.AttachmentQuestion] = cfg.AvoidantAnswer

	final, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, final, "score must clamp at exactly 0, never negative")
}

func TestInterpretationBoundaries(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		score float64
		want  string
	}{
		{0.85, "Excellent"},
		{0.8499, "Good"},
		{0.70, "Good"},
		{0.6999, "Moderate"},
		{0.50, "Moderate"},
		{0.4999, "Low"},
	}

	for _, tc := range cases {
		assert.Contains(t, e.Interpret(tc.score), tc.want,
			"score %v must fall into the %s tier", tc.score, tc.want)
	}

	assert.Equal(t, "100.0% - Excellent Match 💖", e.Interpret(1.0))
	assert.Equal(t, "0.0% - Low Match ⚠️", e.Interpret(0.0))
}

func TestEndToEndIdenticalProfiles(t *testing.T) {
	e := newTestEngine(t)

	a := uniformProfile("a", 3)
	b := uniformProfile("b", 3)

	raw, err := e.CompositeScore(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, raw, 1e-9)

	final, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, final, 1e-9)

	interpretation := e.Interpret(final)
	assert.Contains(t, interpretation, "100.0%")
	assert.Contains(t, interpretation, "Excellent")

	result, err := e.Match(a, b)
	require.NoError(t, err)
	for cat, score := range result.CategoryScores {
		assert.Equal(t, 1.0, score, "category %s must score 1.0 for identical profiles", cat)
	}
}

func TestEndToEndOppositeProfiles(t *testing.T) {
	e := newTestEngine(t)

	a := uniformProfile("a", 1)
	b := uniformProfile("b", 5)

	final, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, final, "maximally opposite profiles must score exactly 0")
	assert.Contains(t, e.Interpret(final), "Low Match")
}

func TestCalculateCompatibilityMissingAnswer(t *testing.T) {
	e := newTestEngine(t)

	a := uniformProfile("a", 3)
	b := uniformProfile("b", 3)
	delete(b.Answers, Q5)

	_, err := e.CalculateCompatibility(a, b)
	require.Error(t, err, "engine must refuse partial answer sets")
	assert.True(t, errors.Is(err, ErrMissingAnswer))

	_, err = e.Match(a, b)
	assert.True(t, errors.Is(err, ErrMissingAnswer))
}

func TestDeterminism(t *testing.T) {
	e := newTestEngine(t)

	a := uniformProfile("a", 2)
	b := uniformProfile("b", 4)
	b.Answers[Q7] = 1
	b.Answers[Q13] = 5

	first, err := e.CalculateCompatibility(a, b)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := e.CalculateCompatibility(a, b)
		require.NoError(t, err)
		if math.Float64bits(first) != math.Float64bits(again) {
			t.Fatalf("repeated calls must be bit-identical: %v vs %v", first, again)
		}
	}
}

func TestAnswerSetValidate(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		assert.NoError(t, uniformProfile("a", 5).Answers.Validate(5))
	})

	t.Run("Missing", func(t *testing.T) {
		p := uniformProfile("a", 3)
		delete(p.Answers, Q17)
		err := p.Answers.Validate(5)
		assert.True(t, errors.Is(err, ErrMissingAnswer))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		p := uniformProfile("a", 3)
		p.Answers[Q2] = 6
		err := p.Answers.Validate(5)
		assert.True(t, errors.Is(err, ErrInvalidAnswerRange))

		p.Answers[Q2] = 0
		err = p.Answers.Validate(5)
		assert.True(t, errors.Is(err, ErrInvalidAnswerRange))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		p := uniformProfile("a", 3)
		p.Answers[QuestionID("Q99")] = 3
		err := p.Answers.Validate(5)
		assert.True(t, errors.Is(err, ErrUnknownQuestion))
	})
}
