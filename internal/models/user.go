package models

// User is the account record. Authentication is a thin collaborator here;
// profile media, chat and the rest of the product surface live in other
// services and are not modeled.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string `gorm:"type:varchar(100)"`

	// Relations
	AnswerProfile *AnswerProfile `gorm:"foreignKey:UserID"`
}
