package notify

import (
	"encoding/json"
	"log/slog"
	"sync"
)

const observerBufferSize = 16

// Observer is one registered event consumer with a buffered delivery queue
type Observer struct {
	events chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

// Events returns the channel of marshaled event payloads
func (o *Observer) Events() <-chan []byte {
	return o.events
}

// Done is closed when the notifier shuts down
func (o *Observer) Done() <-chan struct{} {
	return o.done
}

func (o *Observer) close() {
	o.closeOnce.Do(func() {
		close(o.done)
	})
}

// Notifier is a transport-independent registry of observers. Broadcast
// fans each event out to every observer without blocking: a slow observer
// whose buffer is full misses that event rather than stalling the
// emission loop.
type Notifier struct {
	logger *slog.Logger

	mu        sync.Mutex
	observers map[*Observer]struct{}
	closed    bool
}

// New creates an empty notifier
func New(logger *slog.Logger) *Notifier {
	return &Notifier{
		logger:    logger,
		observers: make(map[*Observer]struct{}),
	}
}

// Register adds a new observer. The caller must Unregister it when done.
func (n *Notifier) Register() *Observer {
	o := &Observer{
		events: make(chan []byte, observerBufferSize),
		done:   make(chan struct{}),
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		o.close()
		return o
	}

	n.observers[o] = struct{}{}
	return o
}

// Unregister removes an observer
func (n *Notifier) Unregister(o *Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.observers, o)
	o.close()
}

// ObserverCount returns the number of currently registered observers
func (n *Notifier) ObserverCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}

// Broadcast delivers an event to all current observers. The payload is
// marshaled once and shared.
func (n *Notifier) Broadcast(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal broadcast event", slog.String("error", err.Error()))
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for o := range n.observers {
		select {
		case o.events <- data:
		default:
			// Drop if the observer's buffer is full
			n.logger.Debug("Dropped event for slow observer")
		}
	}
}

// Close signals all observers to stop and rejects future registrations
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	for o := range n.observers {
		o.close()
		delete(n.observers, o)
	}
}
