package repositories

import (
	"errors"

	"heartlink_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAnswerProfileNotFound = errors.New("answer profile not found")

type AnswerProfileRepository interface {
	// Upsert inserts or fully replaces the user's submission.
	Upsert(db *gorm.DB, profile *models.AnswerProfile) error
	FindByUserID(db *gorm.DB, userID string) (*models.AnswerProfile, error)
	// FindAllExcept returns every submitted profile except the given user's,
	// for candidate ranking.
	FindAllExcept(db *gorm.DB, userID string) ([]models.AnswerProfile, error)
	// FindAll returns every submitted profile (digest worker).
	FindAll(db *gorm.DB) ([]models.AnswerProfile, error)
}

type AnswerProfileRepositoryImpl struct{}

func NewAnswerProfileRepository() AnswerProfileRepository {
	return &AnswerProfileRepositoryImpl{}
}

func (r *AnswerProfileRepositoryImpl) Upsert(db *gorm.DB, profile *models.AnswerProfile) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answers",
			"dealbreaker_kids",
			"dealbreaker_monogamy",
			"dealbreaker_religion",
			"updated_at",
		}),
	}).Create(profile).Error
}

func (r *AnswerProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.AnswerProfile, error) {
	var profile models.AnswerProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *AnswerProfileRepositoryImpl) FindAllExcept(db *gorm.DB, userID string) ([]models.AnswerProfile, error) {
	var profiles []models.AnswerProfile
	if err := db.Where("user_id <> ?", userID).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *AnswerProfileRepositoryImpl) FindAll(db *gorm.DB) ([]models.AnswerProfile, error) {
	var profiles []models.AnswerProfile
	if err := db.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
