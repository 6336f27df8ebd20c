package ports

import (
	"context"

	"github.com/linguachat/chat-api/internal/core/domain"
)

// Translator converts text into the target language. Implementations never
// fail a send: on any upstream error they return the original text.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ImageStore uploads an image (base64 data URI) and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// MessageNotifier pushes a newly persisted message toward its recipient.
// Delivery is fire-and-forget: no acknowledgment, no retry. The persistence
// layer, not the notifier, is the source of truth for message existence.
type MessageNotifier interface {
	NotifyNewMessage(receiverID string, msg *domain.Message)
}
