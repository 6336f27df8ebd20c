package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message must contain text or an image")

// Message is a single direct message between two users. Messages are created
// once on send and never edited or deleted afterwards.
//
// Text holds the displayed text, which is the translated form when the sender
// requested translation; OriginalText then preserves the pre-translation
// input. Image is a URL into the attachment store. A meaningful message
// carries at least one of Text or Image.
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	ReceiverID   string    `json:"receiverId"`
	Text         string    `json:"text,omitempty"`
	OriginalText string    `json:"originalText,omitempty"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
