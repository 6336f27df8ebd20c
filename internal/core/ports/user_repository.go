package ports

import (
	"context"

	"github.com/linguachat/chat-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// ListExcept returns every user except the one with the given id,
	// for the conversation sidebar.
	ListExcept(ctx context.Context, id string) ([]*domain.User, error)
	UpdateProfilePic(ctx context.Context, id, profilePic string) (*domain.User, error)
}
