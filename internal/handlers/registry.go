package handlers

// AppHandlers holds all HTTP handlers of the application.
type AppHandlers struct {
	AuthHandler          *AuthHandler
	CompatibilityHandler *CompatibilityHandler
}
