package ports

import (
	"context"

	"github.com/linguachat/chat-api/internal/core/domain"
)

type AuthService interface {
	// Signup creates an account and returns a session token alongside the user.
	Signup(ctx context.Context, fullName, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// CurrentUser resolves the authenticated user for session checks.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile stores a new profile picture and returns the updated user.
	UpdateProfile(ctx context.Context, userID, profilePic string) (*domain.User, error)
}
