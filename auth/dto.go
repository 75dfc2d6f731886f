package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255" example:"newuser"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"strongpassword123"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"newuser"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// TokenResponse represents the authentication token response returned to the
// client on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

// UserResponse carries the public fields of a user. The password hash is not
// part of this structure at all, so it can never leak through it.
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// NewUserResponse builds a UserResponse from a User.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
