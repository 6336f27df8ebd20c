package realtime

import "encoding/json"

const (
	// EventNewMessage carries a persisted message to its recipient.
	EventNewMessage = "newMessage"
	// EventOnlineUsers carries the full set of online user ids to everyone.
	EventOnlineUsers = "getOnlineUsers"
)

// Event is the JSON envelope for everything pushed over the websocket.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
