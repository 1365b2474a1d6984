package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByLogin finds a user whose username or email equals login
	FindByLogin(ctx context.Context, login string) (*User, error)
	// FindByIDs finds users by IDs
	FindByIDs(ctx context.Context, ids []int64) ([]User, error)
	// Create creates a new user
	Create(ctx context.Context, user *User) error
	// Update updates an existing user
	Update(ctx context.Context, user *User) error
}

// TokenRepository stores API tokens
type TokenRepository interface {
	// FindByKey finds a token by its key
	FindByKey(ctx context.Context, key string) (*APIToken, error)
	// FindByUserID finds the token owned by a user
	FindByUserID(ctx context.Context, userID int64) (*APIToken, error)
	// Create stores a new token
	Create(ctx context.Context, token *APIToken) error
}
