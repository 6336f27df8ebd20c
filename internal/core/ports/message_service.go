package ports

import (
	"context"

	"github.com/linguachat/chat-api/internal/core/domain"
)

// SendMessageInput is the DTO passed from the transport layer to MessageService.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Text       string
	Image      string // data URI, uploaded to the attachment store before persisting
	TargetLang string // optional; when set, Text is machine-translated before persisting
}

// MessageService implements the direct-messaging operations.
type MessageService interface {
	// SidebarUsers lists every user except the caller.
	SidebarUsers(ctx context.Context, userID string) ([]*domain.User, error)
	// History returns the ordered conversation between the caller and otherID.
	History(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
	// Send persists a new message and triggers a best-effort realtime push to
	// the recipient. Persistence always completes (or fails) before the push
	// is attempted.
	Send(ctx context.Context, input SendMessageInput) (*domain.Message, error)
}
