package realtime

import "sync"

// Registry is the process-wide presence map from user id to the id of that
// user's single live websocket connection. State is entirely in-memory and
// rebuilt from zero connections on process restart.
//
// Invariant: at most one entry per user at any instant. A reconnect
// overwrites the previous entry rather than appending a second one. The
// registry is the only component allowed to mutate presence entries.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]string // userID -> connID
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]string)}
}

// Register inserts or overwrites the presence entry for userID. Empty user
// ids are ignored: anonymous connections carry no presence.
func (r *Registry) Register(userID, connID string) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = connID
}

// Unregister removes the entry for userID. Removing an absent user is a
// no-op, not an error.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, userID)
}

// Lookup returns the most recently registered connection id for userID.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.conns[userID]
	return connID, ok
}

// ActiveUsers returns a snapshot of all currently registered user ids.
func (r *Registry) ActiveUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	return users
}
