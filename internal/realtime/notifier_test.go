package realtime

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/core/domain"
)

func newTestClient(h *Hub, connID, userID string) *Client {
	return &Client{
		hub:    h,
		id:     connID,
		userID: userID,
		send:   make(chan []byte, 8),
	}
}

func decodeEvent(t *testing.T, payload []byte) (string, json.RawMessage) {
	t.Helper()
	var ev struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	return ev.Event, ev.Data
}

// nextEvent pops the next buffered payload, failing when none is pending.
func nextEvent(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case payload := <-c.send:
		return decodeEvent(t, payload)
	default:
		t.Fatalf("no event pending for conn %s", c.id)
		return "", nil
	}
}

func TestHub_ConnectBroadcastsPresence(t *testing.T) {
	h := NewHub(zerolog.Nop())

	a := newTestClient(h, "c-a", "user-a")
	h.add(a)

	name, data := nextEvent(t, a)
	if name != EventOnlineUsers {
		t.Fatalf("expected %s, got %s", EventOnlineUsers, name)
	}
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("invalid presence payload: %v", err)
	}
	if len(users) != 1 || users[0] != "user-a" {
		t.Fatalf("unexpected online set: %v", users)
	}

	// a second connect must reach both clients
	b := newTestClient(h, "c-b", "user-b")
	h.add(b)

	for _, c := range []*Client{a, b} {
		name, data = nextEvent(t, c)
		if name != EventOnlineUsers {
			t.Fatalf("expected %s on %s, got %s", EventOnlineUsers, c.id, name)
		}
		users = users[:0]
		if err := json.Unmarshal(data, &users); err != nil {
			t.Fatalf("invalid presence payload: %v", err)
		}
		sort.Strings(users)
		if len(users) != 2 || users[0] != "user-a" || users[1] != "user-b" {
			t.Fatalf("unexpected online set on %s: %v", c.id, users)
		}
	}
}

func TestHub_DisconnectBroadcastsPresence(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := newTestClient(h, "c-a", "user-a")
	b := newTestClient(h, "c-b", "user-b")
	h.add(a)
	h.add(b)
	drain(a)
	drain(b)

	h.remove(b)

	name, data := nextEvent(t, a)
	if name != EventOnlineUsers {
		t.Fatalf("expected %s, got %s", EventOnlineUsers, name)
	}
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("invalid presence payload: %v", err)
	}
	if len(users) != 1 || users[0] != "user-a" {
		t.Fatalf("expected user-b removed, got %v", users)
	}
}

func TestHub_NotifyDeliversToRecipientOnly(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := newTestClient(h, "c-a", "user-a")
	b := newTestClient(h, "c-b", "user-b")
	h.add(a)
	h.add(b)
	drain(a)
	drain(b)

	msg := &domain.Message{ID: "m1", SenderID: "user-a", ReceiverID: "user-b", Text: "hi"}
	h.NotifyNewMessage("user-b", msg)

	name, data := nextEvent(t, b)
	if name != EventNewMessage {
		t.Fatalf("expected %s, got %s", EventNewMessage, name)
	}
	var got domain.Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid message payload: %v", err)
	}
	if got.ID != "m1" || got.Text != "hi" {
		t.Fatalf("unexpected message: %+v", got)
	}

	select {
	case payload := <-a.send:
		t.Fatalf("sender must not receive its own push: %s", payload)
	default:
	}
}

func TestHub_NotifyOfflineRecipientIsSilent(t *testing.T) {
	h := NewHub(zerolog.Nop())
	// no clients connected; must not panic
	h.NotifyNewMessage("ghost", &domain.Message{ID: "m1"})
}

func TestHub_NotifyFullBufferDropsPush(t *testing.T) {
	h := NewHub(zerolog.Nop())
	b := &Client{hub: h, id: "c-b", userID: "user-b", send: make(chan []byte)} // unbuffered, nobody reading
	h.add(b)

	// must not block
	h.NotifyNewMessage("user-b", &domain.Message{ID: "m1"})
}

func TestHub_StaleDisconnectKeepsNewConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())
	old := newTestClient(h, "c-old", "user-a")
	h.add(old)

	// reconnect overwrites the presence entry
	fresh := newTestClient(h, "c-new", "user-a")
	h.add(fresh)

	// the old socket's close must not clobber the new entry
	h.remove(old)

	connID, ok := h.registry.Lookup("user-a")
	if !ok || connID != "c-new" {
		t.Fatalf("expected c-new to survive stale disconnect, got %q (ok=%v)", connID, ok)
	}

	h.remove(fresh)
	if _, ok := h.registry.Lookup("user-a"); ok {
		t.Fatalf("expected user-a offline after real disconnect")
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}
