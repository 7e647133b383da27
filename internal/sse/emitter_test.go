package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-explorer/internal/models"
)

func TestEmitterFiltersByEvent(t *testing.T) {
	e := NewEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all := e.Subscribe(ctx, 0)
	only3 := e.Subscribe(ctx, 3)
	require.Equal(t, 2, e.ClientCount())

	require.NoError(t, e.PublishFavoritesChanged(ctx, models.FavoritesChangedEvent{EventID: 5, Action: "ADD"}))
	require.NoError(t, e.PublishBookingConfirmed(ctx, models.BookingConfirmedEvent{BookingID: 1, EventID: 3}))

	msg := <-all
	assert.Equal(t, EventFavorites, msg.Event)
	msg = <-all
	assert.Equal(t, EventBooking, msg.Event)

	msg = <-only3
	assert.Equal(t, EventBooking, msg.Event)
	assert.Equal(t, 3, msg.EventID)
	select {
	case extra := <-only3:
		t.Fatalf("unexpected message %+v", extra)
	default:
	}
}

func TestEmitterDropsForSlowClients(t *testing.T) {
	e := NewEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.Subscribe(ctx, 0)

	for i := 0; i < clientBuffer; i++ {
		assert.Equal(t, 1, e.Emit(Message{Event: EventBooking}))
	}
	assert.Equal(t, 0, e.Emit(Message{Event: EventBooking}), "full buffer must not block")
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	e := NewEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	ch := e.Subscribe(ctx, 0)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, e.ClientCount())
}
