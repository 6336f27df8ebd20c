package realtime

import (
	"sort"
	"sync"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("u1"); ok {
		t.Fatalf("expected absent result for unknown user")
	}

	r.Register("u1", "c1")
	connID, ok := r.Lookup("u1")
	if !ok || connID != "c1" {
		t.Fatalf("expected c1, got %q (ok=%v)", connID, ok)
	}
}

func TestRegistry_ReconnectOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "c1")
	r.Register("u1", "c2")

	connID, ok := r.Lookup("u1")
	if !ok || connID != "c2" {
		t.Fatalf("expected most recent connection c2, got %q", connID)
	}
	if got := len(r.ActiveUsers()); got != 1 {
		t.Fatalf("expected a single entry after reconnect, got %d", got)
	}
}

func TestRegistry_UnregisterAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister("nobody") // must not panic or error

	r.Register("u1", "c1")
	r.Unregister("u1")
	r.Unregister("u1")
	if _, ok := r.Lookup("u1"); ok {
		t.Fatalf("expected u1 to be gone")
	}
}

func TestRegistry_EmptyUserIDIgnored(t *testing.T) {
	r := NewRegistry()
	r.Register("", "c1")
	if got := len(r.ActiveUsers()); got != 0 {
		t.Fatalf("expected no entries, got %d", got)
	}
}

func TestRegistry_ActiveUsersSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "c1")
	r.Register("u2", "c2")
	r.Register("u3", "c3")
	r.Unregister("u2")

	users := r.ActiveUsers()
	sort.Strings(users)
	if len(users) != 2 || users[0] != "u1" || users[1] != "u3" {
		t.Fatalf("unexpected active users: %v", users)
	}

	// mutating the snapshot must not touch the registry
	users[0] = "mutated"
	if _, ok := r.Lookup("u1"); !ok {
		t.Fatalf("registry affected by snapshot mutation")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Register("u1", "c1")
			r.Lookup("u1")
			r.ActiveUsers()
			r.Unregister("u1")
		}(i)
	}
	wg.Wait()
}
