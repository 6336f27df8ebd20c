package chatclient

import (
	"context"
	"sync"
)

// State is the lifecycle of a conversation session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Session is the controller for the currently selected conversation. It owns
// the in-memory message list, issues fetch/send calls against the REST API,
// and while a conversation is open holds exactly one realtime subscription
// filtered to that conversation's sender.
//
// idle → loading → ready on Open; ready → ready on every send/receive;
// back to idle on Close. Opening a new conversation always releases the
// previous subscription first, so messages from the prior conversation never
// leak into the new one. A failed fetch or send leaves all state unchanged.
type Session struct {
	client *Client
	socket *Socket

	mu       sync.Mutex
	state    State
	otherID  string
	messages []Message
	sub      *Subscription
}

// NewSession builds an idle session. The socket may be nil, in which case the
// session works REST-only and receives no live pushes.
func NewSession(client *Client, socket *Socket) *Session {
	return &Session{client: client, socket: socket, state: StateIdle}
}

// Open selects the conversation with userID: fetches its history and
// subscribes to incoming messages from that user. Any previously open
// conversation is closed first. On a failed fetch the session returns to its
// prior conversation-less state with no partial message list.
func (s *Session) Open(ctx context.Context, userID string) error {
	s.Close()

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	msgs, err := s.client.Messages(ctx, userID)
	if err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.otherID = userID
	s.messages = msgs
	s.state = StateReady
	if s.socket != nil {
		s.sub = s.socket.Subscribe(func(msg Message) {
			s.receive(userID, msg)
		})
	}
	s.mu.Unlock()
	return nil
}

// receive appends a pushed message when it belongs to the open conversation.
func (s *Session) receive(openID string, msg Message) {
	if msg.SenderID != openID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.otherID != openID {
		return
	}
	s.messages = append(s.messages, msg)
}

// Send delivers a message to the open conversation and appends the persisted
// result. A failed send leaves the message list untouched.
func (s *Session) Send(ctx context.Context, msg SendMessage) (*Message, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, &APIError{StatusCode: 0, Message: "no open conversation"}
	}
	otherID := s.otherID
	s.mu.Unlock()

	created, err := s.client.Send(ctx, otherID, msg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state == StateReady && s.otherID == otherID {
		s.messages = append(s.messages, *created)
	}
	s.mu.Unlock()
	return created, nil
}

// Close releases the subscription and returns the session to idle.
func (s *Session) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.otherID = ""
	s.messages = nil
	s.state = StateIdle
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the open conversation's message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
