// Package dto defines request and response shapes for the HTTP API.
package dto

// SignupRequest is the body of POST /api/v1/user/signup.
type SignupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest is the body of POST /api/v1/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued session token. The token field
// is the full Authorization header value, scheme included.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MessageResponse is the generic single-message envelope used by both
// success acknowledgements and domain errors.
type MessageResponse struct {
	Message string `json:"message"`
}
