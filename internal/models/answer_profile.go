package models

import (
	"encoding/json"
	"fmt"

	"heartlink_backend/internal/compat"

	"gorm.io/datatypes"
)

// AnswerProfile persists one user's questionnaire submission: the full
// 23-answer map plus dealbreaker flags. One row per user; re-submission
// replaces the whole answer set.
type AnswerProfile struct {
	BaseModel
	UserID string `gorm:"type:uuid;uniqueIndex;not null"`

	// Answers holds the Q1..Q23 -> value map as JSON. The shape is
	// validated against the fixed schema before anything is written here.
	Answers datatypes.JSON `gorm:"not null"`

	DealbreakerKids     bool `gorm:"default:false"`
	DealbreakerMonogamy bool `gorm:"default:false"`
	DealbreakerReligion bool `gorm:"default:false"`
}

// SetAnswers serializes an answer set into the JSON column.
func (p *AnswerProfile) SetAnswers(answers compat.AnswerSet) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	p.Answers = datatypes.JSON(data)
	return nil
}

// ToCompatProfile converts the stored row into the engine's input shape.
func (p *AnswerProfile) ToCompatProfile() (*compat.Profile, error) {
	var answers compat.AnswerSet
	if err := json.Unmarshal(p.Answers, &answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers for user %s: %w", p.UserID, err)
	}

	return &compat.Profile{
		OwnerID: p.UserID,
		Answers: answers,
		Dealbreakers: compat.Dealbreakers{
			Kids:     p.DealbreakerKids,
			Monogamy: p.DealbreakerMonogamy,
			Religion: p.DealbreakerReligion,
		},
	}, nil
}
