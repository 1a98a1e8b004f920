package auth

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest payload de registro.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" example:"mike"`
	Email    string `json:"email"    example:"mike@tienda.mx"`
	Password string `json:"password" example:"s3cret"`
}

// LoginRequest payload de login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"mike@tienda.mx"`
	Password string `json:"password" example:"s3cret"`
}

// TokenResponse carries the bearer token for subsequent requests.
// swagger:model TokenResponse
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
