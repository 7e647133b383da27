package booking

import (
	"fmt"
	"sync"

	"event-explorer/internal/apperr"
	"event-explorer/internal/models"
)

// Receipts holds the confirmations issued by this process. Nothing here
// outlives the process.
type Receipts struct {
	mu    sync.RWMutex
	byID  map[int64]models.BookingConfirmation
	order []int64
}

func NewReceipts() *Receipts {
	return &Receipts{byID: make(map[int64]models.BookingConfirmation)}
}

func (r *Receipts) Add(c models.BookingConfirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.Booking.ID]; !ok {
		r.order = append(r.order, c.Booking.ID)
	}
	r.byID[c.Booking.ID] = c
}

func (r *Receipts) Get(id int64) (models.BookingConfirmation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return models.BookingConfirmation{}, fmt.Errorf("booking %d: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

// List returns confirmations in issue order.
func (r *Receipts) List() []models.BookingConfirmation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.BookingConfirmation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
