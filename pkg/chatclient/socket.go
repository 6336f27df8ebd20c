package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Socket is one live realtime connection. It fans incoming newMessage events
// out to subscribers and tracks the latest online-user set from presence
// broadcasts.
type Socket struct {
	conn *websocket.Conn

	mu     sync.Mutex
	subs   map[int]func(Message)
	nextID int
	online []string
	closed bool
	err    error
}

// Connect dials the realtime channel using the client's session cookie.
func (c *Client) Connect(ctx context.Context) (*Socket, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"

	dialer := websocket.Dialer{Jar: c.http.Jar}
	conn, resp, err := dialer.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("chatclient: websocket dial: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("chatclient: websocket dial: %w", err)
	}

	s := &Socket{conn: conn, subs: make(map[int]func(Message))}
	go s.readLoop()
	return s, nil
}

// Subscription is a handle over one subscriber; Close unsubscribes it.
// Switching conversations must Close the previous handle before creating a
// new one so events from the prior conversation never cross over.
type Subscription struct {
	once  sync.Once
	close func()
}

func (s *Subscription) Close() {
	s.once.Do(s.close)
}

// Subscribe registers fn for every incoming newMessage event.
func (s *Socket) Subscribe(fn func(Message)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return &Subscription{close: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}}
}

// OnlineUsers returns the most recent presence broadcast.
func (s *Socket) OnlineUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.online))
	copy(out, s.online)
	return out
}

// Err reports why the read loop stopped, nil while it is still running.
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Socket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

func (s *Socket) readLoop() {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.err = err
			}
			s.mu.Unlock()
			return
		}

		var ev event
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}

		switch ev.Event {
		case "newMessage":
			var msg Message
			if err := json.Unmarshal(ev.Data, &msg); err != nil {
				continue
			}
			s.mu.Lock()
			fns := make([]func(Message), 0, len(s.subs))
			for _, fn := range s.subs {
				fns = append(fns, fn)
			}
			s.mu.Unlock()
			for _, fn := range fns {
				fn(msg)
			}
		case "getOnlineUsers":
			var users []string
			if err := json.Unmarshal(ev.Data, &users); err != nil {
				continue
			}
			s.mu.Lock()
			s.online = users
			s.mu.Unlock()
		}
	}
}
