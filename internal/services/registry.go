package services

import (
	"heartlink_backend/internal/email"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService          AuthService
	CompatibilityService CompatibilityService
	EmailService         email.Provider
}
