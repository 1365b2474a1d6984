package identity

import "time"

// CredentialsInput is a username (or email) and password pair
type CredentialsInput struct {
	Username string
	Password string
}

// TokenResult is the API token of the authenticated user
type TokenResult struct {
	Token string `json:"token"`
}

// LoginResult contains the result of a successful session login
type LoginResult struct {
	SessionToken string
	SessionID    string
	ExpiresAt    time.Time
	User         UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Kind     string `json:"kind"`
}

// LogoutInput identifies the session to close
type LogoutInput struct {
	SessionToken string
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID    int64
	Username  string
	SessionID string
	ViaToken  bool
}
