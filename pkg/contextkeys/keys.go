package contextkeys

// Custom key type to avoid collisions with other context users.
type contextKey string

// DBContextKey is the key under which the *gorm.DB (pool or transaction)
// is stored in the request context.
const DBContextKey = contextKey("db")

// UserIDContextKey is the key under which the authenticated user ID is stored.
const UserIDContextKey = contextKey("userID")
