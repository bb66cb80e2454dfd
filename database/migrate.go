package database

import (
	"fmt"

	"heartlink_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate migrates all persisted models.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.AnswerProfile{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}
