package ports

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
)

// AuthService defines the business logic for authentication.
type AuthService interface {
	// Login validates credentials and returns a session token.
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	// ValidateToken checks if a token is valid and returns the associated user.
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	// Logout invalidates a session token.
	Logout(ctx context.Context, token string) error
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
}
