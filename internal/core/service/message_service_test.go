package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/core/domain"
	"github.com/linguachat/chat-api/internal/core/ports"
)

type stubMessageRepo struct {
	inserted  []*domain.Message
	history   []*domain.Message
	insertErr error
}

func (r *stubMessageRepo) Insert(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	created := *msg
	created.ID = "msg-1"
	r.inserted = append(r.inserted, &created)
	return &created, nil
}

func (r *stubMessageRepo) ListBetween(_ context.Context, _, _ string) ([]*domain.Message, error) {
	return r.history, nil
}

type stubTranslator struct {
	translateFn func(ctx context.Context, text, targetLang string) (string, error)
	calls       int
}

func (t *stubTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	t.calls++
	if t.translateFn != nil {
		return t.translateFn(ctx, text, targetLang)
	}
	return text, nil
}

type stubNotifier struct {
	receiverIDs []string
	messages    []*domain.Message
}

func (n *stubNotifier) NotifyNewMessage(receiverID string, msg *domain.Message) {
	n.receiverIDs = append(n.receiverIDs, receiverID)
	n.messages = append(n.messages, msg)
}

func newMessageService(repo *stubMessageRepo, translator *stubTranslator, images *stubImageStore, notifier *stubNotifier) *MessageService {
	return NewMessageService(newStubUserRepo(), repo, translator, images, notifier, zerolog.Nop())
}

func TestMessageService_Send_EmptyMessage(t *testing.T) {
	svc := newMessageService(&stubMessageRepo{}, &stubTranslator{}, &stubImageStore{}, &stubNotifier{})

	_, err := svc.Send(context.Background(), ports.SendMessageInput{SenderID: "u1", ReceiverID: "u2"})
	if !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestMessageService_Send_TextOnly(t *testing.T) {
	repo := &stubMessageRepo{}
	translator := &stubTranslator{}
	notifier := &stubNotifier{}
	svc := newMessageService(repo, translator, &stubImageStore{}, notifier)

	created, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Text:       "hello",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if created.ID != "msg-1" || created.Text != "hello" || created.OriginalText != "" {
		t.Fatalf("unexpected message: %+v", created)
	}
	if translator.calls != 0 {
		t.Fatalf("translator must not run without a target language, got %d calls", translator.calls)
	}
	if len(notifier.receiverIDs) != 1 || notifier.receiverIDs[0] != "u2" {
		t.Fatalf("expected one notification for u2, got %v", notifier.receiverIDs)
	}
	if notifier.messages[0].ID != created.ID {
		t.Fatalf("notifier must receive the persisted message")
	}
}

func TestMessageService_Send_Translates(t *testing.T) {
	repo := &stubMessageRepo{}
	translator := &stubTranslator{translateFn: func(_ context.Context, text, targetLang string) (string, error) {
		if targetLang != "es" {
			t.Fatalf("unexpected target language %q", targetLang)
		}
		return "hola", nil
	}}
	svc := newMessageService(repo, translator, &stubImageStore{}, &stubNotifier{})

	created, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Text:       "hello",
		TargetLang: "es",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if created.Text != "hola" {
		t.Fatalf("Text = %q, want translated text", created.Text)
	}
	if created.OriginalText != "hello" {
		t.Fatalf("OriginalText = %q, want the untranslated text", created.OriginalText)
	}
}

func TestMessageService_Send_TranslationFailureFallsBack(t *testing.T) {
	repo := &stubMessageRepo{}
	translator := &stubTranslator{translateFn: func(context.Context, string, string) (string, error) {
		return "", errors.New("upstream timeout")
	}}
	notifier := &stubNotifier{}
	svc := newMessageService(repo, translator, &stubImageStore{}, notifier)

	created, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Text:       "hello",
		TargetLang: "es",
	})
	if err != nil {
		t.Fatalf("translation failure must not fail the send: %v", err)
	}
	if created.Text != "hello" {
		t.Fatalf("Text = %q, want original after fallback", created.Text)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("message must still be delivered after fallback")
	}
}

func TestMessageService_Send_WithImage(t *testing.T) {
	repo := &stubMessageRepo{}
	images := &stubImageStore{uploadFn: func(_ context.Context, dataURI string) (string, error) {
		if dataURI != "data:image/png;base64,xxx" {
			return "", errors.New("unexpected payload")
		}
		return "https://images.example.com/pic.png", nil
	}}
	svc := newMessageService(repo, &stubTranslator{}, images, &stubNotifier{})

	created, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Image:      "data:image/png;base64,xxx",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if created.Image != "https://images.example.com/pic.png" {
		t.Fatalf("Image = %q, want uploaded URL", created.Image)
	}
}

func TestMessageService_Send_UploadFailureFailsSend(t *testing.T) {
	repo := &stubMessageRepo{}
	uploadErr := errors.New("bucket unavailable")
	images := &stubImageStore{uploadFn: func(context.Context, string) (string, error) {
		return "", uploadErr
	}}
	notifier := &stubNotifier{}
	svc := newMessageService(repo, &stubTranslator{}, images, notifier)

	_, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Image:      "data:xxx",
	})
	if !errors.Is(err, uploadErr) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if len(repo.inserted) != 0 || len(notifier.messages) != 0 {
		t.Fatalf("nothing must be persisted or delivered after a failed upload")
	}
}

func TestMessageService_Send_PersistFailureSkipsNotify(t *testing.T) {
	repo := &stubMessageRepo{insertErr: errors.New("write concern")}
	notifier := &stubNotifier{}
	svc := newMessageService(repo, &stubTranslator{}, &stubImageStore{}, notifier)

	_, err := svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   "u1",
		ReceiverID: "u2",
		Text:       "hello",
	})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("notifier must not run when the write fails")
	}
}

func TestMessageService_History(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubMessageRepo{history: []*domain.Message{
		{ID: "m1", SenderID: "u1", ReceiverID: "u2", Text: "hi", CreatedAt: now},
		{ID: "m2", SenderID: "u2", ReceiverID: "u1", Text: "hey", CreatedAt: now.Add(time.Second)},
	}}
	svc := newMessageService(repo, &stubTranslator{}, &stubImageStore{}, &stubNotifier{})

	msgs, err := svc.History(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m1" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}

func TestMessageKind(t *testing.T) {
	cases := []struct {
		msg  domain.Message
		want string
	}{
		{domain.Message{Text: "hi"}, "text"},
		{domain.Message{Image: "u"}, "image"},
		{domain.Message{Text: "hi", Image: "u"}, "text_and_image"},
	}
	for _, tc := range cases {
		if got := messageKind(&tc.msg); got != tc.want {
			t.Fatalf("messageKind(%+v) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}
