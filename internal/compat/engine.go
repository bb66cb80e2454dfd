// Package compat implements the compatibility scoring engine: a pure,
// deterministic pipeline that turns two questionnaire submissions into a
// single similarity score in [0,1] plus a human-readable interpretation.
//
// The pipeline is: per-question similarity -> per-category arithmetic mean
// -> weighted composite -> dealbreaker/mismatch overrides -> clamp. The
// engine owns no storage and no I/O; it is safe to call concurrently.
package compat

import (
	"fmt"
	"math"
	"sort"
)

// Similarity returns the normalized closeness of two ordinal answers:
// 1 - |a-b|/(maxValue-1). Identical answers score 1.0, maximally distant
// answers score 0.0. Symmetric in a and b. Inputs are assumed validated;
// out-of-range values produce results outside [0,1].
func Similarity(a, b, maxValue int) float64 {
	diff := math.Abs(float64(a) - float64(b))
	return 1 - diff/float64(maxValue-1)
}

// Engine scores profile pairs under a fixed, validated Config.
// Stateless between calls.
type Engine struct {
	cfg   Config
	order []Category // fixed summation order keeps results bit-identical
}

// NewEngine validates cfg and builds an engine. A SchemaDrift error here
// must abort startup; it is a configuration error, not a runtime data
// error.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	order := make([]Category, 0, len(cfg.Categories))
	for cat := range cfg.Categories {
		order = append(order, cat)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return &Engine{cfg: cfg, order: order}, nil
}

// Config returns the engine's scoring configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CategoryScore averages per-question similarity across the category's
// questions. Fails with ErrMissingAnswer when either profile lacks a value.
func (e *Engine) CategoryScore(cat Category, a, b *Profile) (float64, error) {
	questions, ok := e.cfg.Categories[cat]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %q", ErrSchemaDrift, cat)
	}

	var sum float64
	for _, q := range questions {
		av, aok := a.Answers[q]
		bv, bok := b.Answers[q]
		if !aok {
			return 0, fmt.Errorf("%w: %s (profile %s)", ErrMissingAnswer, q, a.OwnerID)
		}
		if !bok {
			return 0, fmt.Errorf("%w: %s (profile %s)", ErrMissingAnswer, q, b.OwnerID)
		}
		sum += Similarity(av, bv, e.cfg.MaxScale)
	}

	return sum / float64(len(questions)), nil
}

// CompositeScore is the weight-summed average of all category scores,
// before overrides. Weights sum to 1.0, so in-range answers keep the
// composite in [0,1].
func (e *Engine) CompositeScore(a, b *Profile) (float64, error) {
	var total float64
	for _, cat := range e.order {
		score, err := e.CategoryScore(cat, a, b)
		if err != nil {
			return 0, err
		}
		total += score * e.cfg.Weights[cat]
	}
	return total, nil
}

// applyOverrides applies the dealbreaker floor and the two mismatch
// penalties to a raw composite.
//
// Dealbreaker flags are read from profile a only. This asymmetry is the
// documented policy: the requesting side's dealbreakers gate the match.
func (e *Engine) applyOverrides(a, b *Profile, rawScore float64) float64 {
	// Hard dealbreakers: first mismatch wins, nothing else applies.
	if a.Dealbreakers.Kids && a.Answers[e.cfg.KidsQuestion] != b.Answers[e.cfg.KidsQuestion] {
		return e.cfg.DealbreakerFloor
	}
	if a.Dealbreakers.Monogamy && a.Answers[e.cfg.MonogamyQuestion] != b.Answers[e.cfg.MonogamyQuestion] {
		return e.cfg.DealbreakerFloor
	}
	if a.Dealbreakers.Religion && a.Answers[e.cfg.ReligionQuestion] != b.Answers[e.cfg.ReligionQuestion] {
		return e.cfg.DealbreakerFloor
	}

	final := rawScore

	// Attachment-style clash: anxious paired with avoidant, either order.
	attachA := a.Answers[e.cfg.AttachmentQuestion]
	attachB := b.Answers[e.cfg.AttachmentQuestion]
	if (attachA == e.cfg.AnxiousAnswer && attachB == e.cfg.AvoidantAnswer) ||
		(attachA == e.cfg.AvoidantAnswer && attachB == e.cfg.AnxiousAnswer) {
		final -= e.cfg.AttachmentPenalty
	}

	// Primary love language mismatch.
	if a.Answers[e.cfg.LoveLanguageQuestion] != b.Answers[e.cfg.LoveLanguageQuestion] {
		final -= e.cfg.LoveLanguagePenalty
	}

	if final < 0 {
		final = 0
	}
	if final > 1 {
		// Cannot happen with a well-formed scale; guards misconfiguration.
		final = 1
	}
	return final
}

// CalculateCompatibility is the engine's entry point: composite score with
// overrides applied, in [0,1]. Profile a is the requesting side whose
// dealbreaker flags are consulted.
func (e *Engine) CalculateCompatibility(a, b *Profile) (float64, error) {
	raw, err := e.CompositeScore(a, b)
	if err != nil {
		return 0, err
	}
	return e.applyOverrides(a, b, raw), nil
}

// Result is an on-demand comparison outcome; never persisted by the engine.
type Result struct {
	Score          float64
	CategoryScores map[Category]float64
	Interpretation string
}

// Match scores a pair and returns the full result including the
// per-category breakdown used by match cards.
func (e *Engine) Match(a, b *Profile) (*Result, error) {
	scores := make(map[Category]float64, len(e.order))
	var total float64
	for _, cat := range e.order {
		score, err := e.CategoryScore(cat, a, b)
		if err != nil {
			return nil, err
		}
		scores[cat] = score
		total += score * e.cfg.Weights[cat]
	}

	final := e.applyOverrides(a, b, total)

	return &Result{
		Score:          final,
		CategoryScores: scores,
		Interpretation: e.Interpret(final),
	}, nil
}

// Interpret maps a final score to its display string. Thresholds compare
// against the unrounded percent; boundary values belong to the higher tier.
func (e *Engine) Interpret(score float64) string {
	percent := score * 100

	var label string
	switch {
	case percent >= e.cfg.ExcellentThreshold:
		label = "Excellent Match 💖"
	case percent >= e.cfg.GoodThreshold:
		label = "Good Match 💫"
	case percent >= e.cfg.ModerateThreshold:
		label = "Moderate Match 🙂"
	default:
		label = "Low Match ⚠️"
	}

	return fmt.Sprintf("%.1f%% - %s", percent, label)
}
