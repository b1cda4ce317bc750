package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required"        msg:"Name is required"`
	Email    string `json:"email"    validate:"required,email"  msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=6,bcryptlen" msg:"Please provide a password with 6 or more characters"`
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required"       msg:"Password is required"`
}

// AuthService covers account creation, credential checks and the auth gate.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	// Authenticate resolves a presented token to an identity.
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	CurrentUser(ctx context.Context, id domain.Identity) (*domain.User, error)
	Logout(ctx context.Context, id domain.Identity) error
}
