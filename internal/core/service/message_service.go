package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/api/metrics"
	"github.com/linguachat/chat-api/internal/core/domain"
	"github.com/linguachat/chat-api/internal/core/ports"
)

// MessageService implements the send/fetch operations for direct messages.
type MessageService struct {
	users      ports.UserRepository
	messages   ports.MessageRepository
	translator ports.Translator
	images     ports.ImageStore
	notifier   ports.MessageNotifier
	logger     zerolog.Logger
}

func NewMessageService(
	users ports.UserRepository,
	messages ports.MessageRepository,
	translator ports.Translator,
	images ports.ImageStore,
	notifier ports.MessageNotifier,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		users:      users,
		messages:   messages,
		translator: translator,
		images:     images,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *MessageService) SidebarUsers(ctx context.Context, userID string) ([]*domain.User, error) {
	users, err := s.users.ListExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sidebar users: %w", err)
	}
	return users, nil
}

func (s *MessageService) History(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	msgs, err := s.messages.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return msgs, nil
}

// Send runs the full send pipeline: upload the attachment, translate the text,
// persist the message, then hand it to the notifier. The durable write always
// happens before the push, so a crash in between loses only the realtime
// delivery, never the message.
func (s *MessageService) Send(ctx context.Context, input ports.SendMessageInput) (*domain.Message, error) {
	if input.Text == "" && input.Image == "" {
		return nil, domain.ErrEmptyMessage
	}

	var imageURL string
	if input.Image != "" {
		url, err := s.images.Upload(ctx, input.Image)
		if err != nil {
			s.logger.Error().Err(err).Str("sender_id", input.SenderID).Msg("image upload failed")
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imageURL = url
	}

	text := input.Text
	if input.Text != "" && input.TargetLang != "" {
		translated, err := s.translator.Translate(ctx, input.Text, input.TargetLang)
		if err != nil {
			// degrade to the untranslated text, never fail the send
			s.logger.Warn().Err(err).Str("target_lang", input.TargetLang).Msg("translation failed, using original text")
		} else {
			text = translated
		}
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Text:       text,
		Image:      imageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.TargetLang != "" && input.Text != "" {
		msg.OriginalText = input.Text
	}

	created, err := s.messages.Insert(ctx, msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to persist message")
		return nil, fmt.Errorf("persist message: %w", err)
	}

	s.notifier.NotifyNewMessage(created.ReceiverID, created)

	metrics.MessagesSentTotal.WithLabelValues(messageKind(created)).Inc()
	s.logger.Info().
		Str("message_id", created.ID).
		Str("sender_id", created.SenderID).
		Str("receiver_id", created.ReceiverID).
		Msg("message sent")

	return created, nil
}

func messageKind(m *domain.Message) string {
	switch {
	case m.Text != "" && m.Image != "":
		return "text_and_image"
	case m.Image != "":
		return "image"
	default:
		return "text"
	}
}
