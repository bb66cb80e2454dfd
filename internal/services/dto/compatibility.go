package dto

// ========================
// Compatibility DTOs
// ========================

// DealbreakersDTO mirrors the three veto flags. Absent flags default to false.
type DealbreakersDTO struct {
	Kids     bool `json:"kids"`
	Monogamy bool `json:"monogamy"`
	Religion bool `json:"religion"`
}

// SubmitAnswersRequest is the full questionnaire submission. The exact
// Q1..Q23 key-set invariant is enforced by the engine schema, not by
// struct tags; the answer-scale rule covers the value range.
type SubmitAnswersRequest struct {
	Answers      map[string]int  `json:"answers" validate:"required,dive,answer-scale"`
	Dealbreakers DealbreakersDTO `json:"dealbreakers"`
}

// MatchResult is a single pairwise comparison.
type MatchResult struct {
	UserID         string             `json:"user_id"`
	Score          float64            `json:"score"`
	Percent        float64            `json:"percent"` // score * 100, one decimal
	Interpretation string             `json:"interpretation"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// RankedMatch is one entry of the ranked candidate list.
type RankedMatch struct {
	UserID         string             `json:"user_id"`
	DisplayName    string             `json:"display_name,omitempty"`
	Score          float64            `json:"score"`
	Percent        float64            `json:"percent"`
	Interpretation string             `json:"interpretation"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// RankCriteria filters the ranked candidate list. MinScore is a percent.
type RankCriteria struct {
	Limit    int     `form:"limit" validate:"omitempty,min=0,max=100"`
	MinScore float64 `form:"min_score" validate:"omitempty,min=0,max=100"`
}

// SchemaResponse exposes the questionnaire schema so clients stay in sync
// with the fixed 23-question contract.
type SchemaResponse struct {
	MaxScale     int                 `json:"max_scale"`
	Weights      map[string]float64  `json:"weights"`
	Categories   map[string][]string `json:"categories"`
	Dealbreakers []string            `json:"dealbreakers"`
}
