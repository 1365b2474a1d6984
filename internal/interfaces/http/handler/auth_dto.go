package handler

// CredentialsRequest is the body of the token and login endpoints, as JSON
// or form fields. Username may also be the email address.
type CredentialsRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=254"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}

// TokenResponse is the body returned by the token endpoint
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginResponse describes the user of a new session
type LoginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Kind     string `json:"kind"`
}
