package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/core/domain"
	"github.com/linguachat/chat-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type delivery struct {
	receiverID string
	message    *domain.Message
}

// Dispatcher decouples the REST send path from the websocket push. Deliveries
// are routed to a fixed set of workers by consistent hashing on the receiver
// id, which preserves per-recipient FIFO ordering while letting the HTTP
// handler return as soon as the durable write and the enqueue are done.
//
// Semantics stay fire-and-forget: a full shard buffer drops the push, never
// the persisted message.
type Dispatcher struct {
	workers []chan delivery
	sink    ports.MessageNotifier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers feeding
// the given sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.MessageNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan delivery, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan delivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// NotifyNewMessage implements ports.MessageNotifier. The enqueue never
// blocks: when the shard buffer is full the push is dropped.
func (d *Dispatcher) NotifyNewMessage(receiverID string, msg *domain.Message) {
	select {
	case d.workers[d.shardIndex(receiverID)] <- delivery{receiverID: receiverID, message: msg}:
	default:
		d.log.Warn().Str("receiver_id", receiverID).Str("message_id", msg.ID).Msg("delivery queue full, push dropped")
	}
}

// shardIndex maps a receiver id deterministically to a worker index.
func (d *Dispatcher) shardIndex(receiverID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(receiverID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case del, ok := <-ch:
			if !ok {
				return
			}
			d.sink.NotifyNewMessage(del.receiverID, del.message)
			d.log.Debug().
				Str("receiver_id", del.receiverID).
				Int("worker_id", id).
				Msg("delivery handed to hub")
		}
	}
}
