package realtime

import (
	"github.com/linguachat/chat-api/internal/api/metrics"
	"github.com/linguachat/chat-api/internal/core/domain"
)

// Notify pushes an event to recipientID's live connection, if any. Delivery
// is at-most-once and best-effort: an offline recipient or a full send buffer
// drops the push silently. The recipient still sees the message on its next
// history fetch, because the durable write happened before Notify was called.
func (h *Hub) Notify(recipientID string, event Event) {
	connID, ok := h.registry.Lookup(recipientID)
	if !ok {
		metrics.DeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}

	payload, err := event.encode()
	if err != nil {
		h.logger.Error().Err(err).Str("event", event.Event).Msg("failed to encode event")
		return
	}

	// The send happens under the read lock so a concurrent remove cannot
	// close the channel mid-push.
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		metrics.DeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}
	select {
	case c.send <- payload:
		metrics.DeliveriesTotal.WithLabelValues("delivered").Inc()
	default:
		metrics.DeliveriesTotal.WithLabelValues("dropped").Inc()
		h.logger.Warn().Str("conn_id", connID).Str("event", event.Event).Msg("send buffer full, push dropped")
	}
}

// NotifyNewMessage implements ports.MessageNotifier against the hub directly.
func (h *Hub) NotifyNewMessage(receiverID string, msg *domain.Message) {
	h.Notify(receiverID, Event{Event: EventNewMessage, Data: msg})
}

// BroadcastPresence pushes the full current online-user set to every live
// connection, keeping each client's presence indicator eventually consistent
// with at most one round-trip of staleness.
func (h *Hub) BroadcastPresence() {
	event := Event{Event: EventOnlineUsers, Data: h.registry.ActiveUsers()}
	payload, err := event.encode()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode presence event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// slow consumer, skip; the next connect/disconnect resends
		}
	}
	metrics.PresenceBroadcastsTotal.Inc()
}
