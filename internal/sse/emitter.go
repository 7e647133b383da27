// Package sse fans booking and favorites notices out to connected
// Server-Sent Events clients.
package sse

import (
	"context"
	"sync"

	"event-explorer/internal/models"
)

const (
	EventBooking   = "booking"
	EventFavorites = "favorites"

	clientBuffer = 10
)

// Message is one notice queued for a client.
type Message struct {
	Event   string
	EventID int
	Data    interface{}
}

// Emitter delivers messages to subscribers. A subscriber registered with an
// event id only sees notices for that event; id 0 sees everything.
type Emitter struct {
	mu      sync.RWMutex
	clients map[chan Message]int
}

func NewEmitter() *Emitter {
	return &Emitter{clients: make(map[chan Message]int)}
}

// Subscribe registers a client until ctx ends, then closes its channel.
func (e *Emitter) Subscribe(ctx context.Context, eventID int) <-chan Message {
	ch := make(chan Message, clientBuffer)

	e.mu.Lock()
	e.clients[ch] = eventID
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.clients, ch)
		e.mu.Unlock()
		close(ch)
	}()

	return ch
}

// ClientCount reports the number of live subscribers.
func (e *Emitter) ClientCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients)
}

// Emit never blocks. A client whose buffer is full misses the message.
func (e *Emitter) Emit(msg Message) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	delivered := 0
	for ch, filter := range e.clients {
		if filter != 0 && filter != msg.EventID {
			continue
		}
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

func (e *Emitter) PublishBookingConfirmed(_ context.Context, evt models.BookingConfirmedEvent) error {
	e.Emit(Message{Event: EventBooking, EventID: evt.EventID, Data: evt})
	return nil
}

func (e *Emitter) PublishFavoritesChanged(_ context.Context, evt models.FavoritesChangedEvent) error {
	e.Emit(Message{Event: EventFavorites, EventID: evt.EventID, Data: evt})
	return nil
}
