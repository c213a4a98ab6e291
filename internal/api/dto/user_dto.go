package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest carries a password rotation for the caller.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateUserRequest is the account creation payload.
type CreateUserRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"organization_id"`
}

// UpdateUserRequest carries partial account updates. Omitted fields stay
// unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// AccessStatusRequest sets a user's access status.
type AccessStatusRequest struct {
	AccessStatus string `json:"access_status"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID *string   `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	AccessStatus   string    `json:"access_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user, never exposing the password hash.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		OrganizationID: user.OrgID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           string(user.Role),
		AccessStatus:   string(user.AccessStatus),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
