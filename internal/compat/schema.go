package compat

import (
	"errors"
	"fmt"
	"math"
)

// QuestionID identifies one of the 23 fixed questionnaire questions.
type QuestionID string

const (
	Q1  QuestionID = "Q1"
	Q2  QuestionID = "Q2"
	Q3  QuestionID = "Q3"
	Q4  QuestionID = "Q4"
	Q5  QuestionID = "Q5"
	Q6  QuestionID = "Q6"
	Q7  QuestionID = "Q7"
	Q8  QuestionID = "Q8"
	Q9  QuestionID = "Q9"
	Q10 QuestionID = "Q10"
	Q11 QuestionID = "Q11"
	Q12 QuestionID = "Q12"
	Q13 QuestionID = "Q13"
	Q14 QuestionID = "Q14"
	Q15 QuestionID = "Q15"
	Q16 QuestionID = "Q16"
	Q17 QuestionID = "Q17"
	Q18 QuestionID = "Q18"
	Q19 QuestionID = "Q19"
	Q20 QuestionID = "Q20"
	Q21 QuestionID = "Q21"
	Q22 QuestionID = "Q22"
	Q23 QuestionID = "Q23"
)

var allQuestions = []QuestionID{
	Q1, Q2, Q3, Q4, Q5, Q6, Q7, Q8, Q9, Q10, Q11, Q12,
	Q13, Q14, Q15, Q16, Q17, Q18, Q19, Q20, Q21, Q22, Q23,
}

// Questions returns the full ordered question-id set. The returned slice
// is a copy; the canonical set never changes at runtime.
func Questions() []QuestionID {
	out := make([]QuestionID, len(allQuestions))
	copy(out, allQuestions)
	return out
}

// Category names a weighted facet of compatibility.
type Category string

const (
	CategoryPersonality   Category = "personality"
	CategoryAttachment    Category = "attachment"
	CategoryLoveLanguages Category = "loveLanguages"
	CategoryValues        Category = "values"
	CategoryConflict      Category = "conflict"
	CategoryInterests     Category = "interests"
	CategoryExpectations  Category = "expectations"
	CategoryEmotional     Category = "emotional"
)

// ErrSchemaDrift marks a configuration-integrity failure: the weight table
// and the question partition fell out of sync. Raised at Config validation,
// never during per-pair scoring.
var ErrSchemaDrift = errors.New("questionnaire schema drift")

// weightSumTolerance is the floating tolerance for the weight-sum check.
const weightSumTolerance = 1e-9

// Config is the immutable scoring configuration: the questionnaire scale,
// the category weight table, the category->question partition, and every
// override constant. Construct it once at startup and validate it before
// building an Engine; the Engine never mutates it.
type Config struct {
	// MaxScale is the upper bound of the ordinal answer scale (lower bound
	// is always 1). The similarity formula divides by MaxScale-1.
	MaxScale int

	Weights    map[Category]float64
	Categories map[Category][]QuestionID

	// Question bindings carrying domain meaning. These are tied to the
	// fixed 23-question schema the questionnaire was designed around and
	// must not be rebound arbitrarily.
	KidsQuestion         QuestionID
	MonogamyQuestion     QuestionID
	ReligionQuestion     QuestionID
	AttachmentQuestion   QuestionID
	LoveLanguageQuestion QuestionID

	// Answer values on AttachmentQuestion that denote the anxious and
	// avoidant attachment styles.
	AnxiousAnswer  int
	AvoidantAnswer int

	// Override constants.
	DealbreakerFloor    float64
	AttachmentPenalty   float64
	LoveLanguagePenalty float64

	// Interpretation thresholds, in percent.
	ExcellentThreshold float64
	GoodThreshold      float64
	ModerateThreshold  float64
}

// DefaultConfig returns the production scoring policy.
func DefaultConfig() Config {
	return Config{
		MaxScale: 5,

		Weights: map[Category]float64{
			CategoryPersonality:   0.20,
			CategoryAttachment:    0.15,
			CategoryLoveLanguages: 0.15,
			CategoryValues:        0.20,
			CategoryConflict:      0.15,
			CategoryInterests:     0.05,
			CategoryExpectations:  0.10,
			CategoryEmotional:     0.00, // merged into expectations if needed
		},

		Categories: map[Category][]QuestionID{
			CategoryPersonality:   {Q1, Q2, Q3},
			CategoryAttachment:    {Q4, Q5},
			CategoryLoveLanguages: {Q6, Q7},
			CategoryValues:        {Q8, Q9, Q10, Q11},
			CategoryConflict:      {Q12, Q13, Q14},
			CategoryInterests:     {Q15, Q16, Q17},
			CategoryExpectations:  {Q18, Q19, Q20, Q21},
			CategoryEmotional:     {Q22, Q23},
		},

		KidsQuestion:         Q9,
		MonogamyQuestion:     Q19,
		ReligionQuestion:     Q11,
		AttachmentQuestion:   Q4,
		LoveLanguageQuestion: Q6,

		AnxiousAnswer:  2,
		AvoidantAnswer: 3,

		DealbreakerFloor:    0.40,
		AttachmentPenalty:   0.10,
		LoveLanguagePenalty: 0.05,

		ExcellentThreshold: 85,
		GoodThreshold:      70,
		ModerateThreshold:  50,
	}
}

// Validate checks configuration integrity: weight normalization, the exact
// Q1..Q23 partition, and binding membership. Any failure is wrapped in
// ErrSchemaDrift and should abort startup.
func (c Config) Validate() error {
	if c.MaxScale <= 1 {
		return fmt.Errorf("%w: max scale must be > 1, got %d", ErrSchemaDrift, c.MaxScale)
	}

	if len(c.Weights) == 0 || len(c.Categories) == 0 {
		return fmt.Errorf("%w: empty weight table or category partition", ErrSchemaDrift)
	}

	// Weight table and partition must share the same key set.
	for cat := range c.Weights {
		if _, ok := c.Categories[cat]; !ok {
			return fmt.Errorf("%w: category %q has a weight but no questions", ErrSchemaDrift, cat)
		}
	}
	for cat := range c.Categories {
		if _, ok := c.Weights[cat]; !ok {
			return fmt.Errorf("%w: category %q has questions but no weight", ErrSchemaDrift, cat)
		}
	}

	var sum float64
	for cat, w := range c.Weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %q is %v, want [0,1]", ErrSchemaDrift, cat, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrSchemaDrift, sum)
	}

	// The partition must cover exactly Q1..Q23, each question once.
	seen := make(map[QuestionID]Category, len(allQuestions))
	for cat, questions := range c.Categories {
		if len(questions) == 0 {
			return fmt.Errorf("%w: category %q has no questions", ErrSchemaDrift, cat)
		}
		for _, q := range questions {
			if prev, dup := seen[q]; dup {
				return fmt.Errorf("%w: question %s assigned to both %q and %q", ErrSchemaDrift, q, prev, cat)
			}
			seen[q] = cat
		}
	}
	for _, q := range allQuestions {
		if _, ok := seen[q]; !ok {
			return fmt.Errorf("%w: question %s is not assigned to any category", ErrSchemaDrift, q)
		}
	}
	if len(seen) != len(allQuestions) {
		return fmt.Errorf("%w: partition references %d questions, want %d", ErrSchemaDrift, len(seen), len(allQuestions))
	}

	// Bound questions must exist in the partition.
	bindings := []struct {
		name string
		q    QuestionID
	}{
		{"kids", c.KidsQuestion},
		{"monogamy", c.MonogamyQuestion},
		{"religion", c.ReligionQuestion},
		{"attachment", c.AttachmentQuestion},
		{"loveLanguage", c.LoveLanguageQuestion},
	}
	for _, b := range bindings {
		if _, ok := seen[b.q]; !ok {
			return fmt.Errorf("%w: %s binding points at unknown question %q", ErrSchemaDrift, b.name, b.q)
		}
	}

	if c.AnxiousAnswer == c.AvoidantAnswer {
		return fmt.Errorf("%w: anxious and avoidant answers must differ", ErrSchemaDrift)
	}
	for _, v := range []int{c.AnxiousAnswer, c.AvoidantAnswer} {
		if v < 1 || v > c.MaxScale {
			return fmt.Errorf("%w: attachment style answer %d outside scale [1,%d]", ErrSchemaDrift, v, c.MaxScale)
		}
	}

	return nil
}
