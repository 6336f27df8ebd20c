package ports

import (
	"context"

	"github.com/linguachat/chat-api/internal/core/domain"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// ListBetween returns all messages exchanged between the two users,
	// ordered by creation time ascending. No messages yields an empty
	// slice, never an error.
	ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
}
