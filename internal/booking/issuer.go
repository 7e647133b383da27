// Package booking simulates ticket purchase: it validates the request, waits
// out a fake processing delay and issues a confirmed booking.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"event-explorer/internal/apperr"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

const (
	DefaultDelay      = 1500 * time.Millisecond
	DefaultServiceFee = 5.0
)

// EventSource resolves event ids. *catalog.Store satisfies it.
type EventSource interface {
	ByID(id int) (models.Event, error)
}

// Publisher is told about every issued booking.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, evt models.BookingConfirmedEvent) error
}

type Option func(*Issuer)

func WithDelay(d time.Duration) Option {
	return func(i *Issuer) { i.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithPublisher adds p to the publishers told about each booking.
func WithPublisher(p Publisher) Option {
	return func(i *Issuer) { i.publishers = append(i.publishers, p) }
}

func WithLogger(l *logger.Logger) Option {
	return func(i *Issuer) { i.logger = l }
}

func WithServiceFee(fee float64) Option {
	return func(i *Issuer) { i.serviceFee = fee }
}

type Issuer struct {
	events     EventSource
	delay      time.Duration
	serviceFee float64
	now        func() time.Time
	publishers []Publisher
	logger     *logger.Logger
	receipts   *Receipts

	idMu   sync.Mutex
	lastID int64
}

func NewIssuer(events EventSource, opts ...Option) *Issuer {
	i := &Issuer{
		events:     events,
		delay:      DefaultDelay,
		serviceFee: DefaultServiceFee,
		now:        time.Now,
		logger:     logger.Nop(),
		receipts:   NewReceipts(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) Receipts() *Receipts {
	return i.receipts
}

// Book issues a booking after the simulated delay. If ctx ends first the
// call returns apperr.ErrTimeout and nothing is issued. Book never retries.
func (i *Issuer) Book(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if _, _, err := i.check(req); err != nil {
		i.logger.Warn("BOOKING", fmt.Sprintf("Rejected booking for event %d: %v", req.EventID, err))
		return models.Booking{}, err
	}

	if err := i.wait(ctx); err != nil {
		i.logger.Warn("BOOKING", fmt.Sprintf("Booking for event %d abandoned: %v", req.EventID, ctx.Err()))
		return models.Booking{}, err
	}

	now := i.now()
	id := i.nextID(now)
	booking := models.Booking{
		ID:             id,
		EventID:        req.EventID,
		TicketQuantity: req.Quantity,
		TicketType:     req.TicketType,
		BookingDate:    now.UTC(),
		Status:         models.BookingStatusConfirmed,
		QRCode:         fmt.Sprintf("QR-%d", id),
	}

	i.logger.LogBooking("CONFIRMED", booking.ID, fmt.Sprintf("event %d, %d x %s", booking.EventID, booking.TicketQuantity, booking.TicketType))
	i.publish(ctx, booking)
	return booking, nil
}

// Confirm validates the attendee, books, prices the booking and records
// the receipt so its QR code and PDF can be rendered later.
func (i *Issuer) Confirm(ctx context.Context, req models.BookingRequest, attendee models.Attendee) (models.BookingConfirmation, error) {
	if err := ValidateAttendee(attendee); err != nil {
		return models.BookingConfirmation{}, err
	}
	quote, err := i.Quote(req)
	if err != nil {
		return models.BookingConfirmation{}, err
	}

	booking, err := i.Book(ctx, req)
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	event, err := i.events.ByID(req.EventID)
	if err != nil {
		return models.BookingConfirmation{}, err
	}

	conf := models.BookingConfirmation{
		Booking:  booking,
		Event:    event,
		Quote:    quote,
		Attendee: attendee,
	}
	i.receipts.Add(conf)
	return conf, nil
}

// Quote prices a request. The service fee is waived for free events.
func (i *Issuer) Quote(req models.BookingRequest) (models.Quote, error) {
	event, option, err := i.check(req)
	if err != nil {
		return models.Quote{}, err
	}

	subtotal := option.Price * float64(req.Quantity)
	fee := i.serviceFee
	if event.Price.IsFree() {
		fee = 0
	}
	return models.Quote{
		EventID:    event.ID,
		TicketType: option.Type,
		TicketName: option.Name,
		UnitPrice:  option.Price,
		Quantity:   req.Quantity,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
		Currency:   event.Price.Currency,
	}, nil
}

func (i *Issuer) check(req models.BookingRequest) (models.Event, models.TicketOption, error) {
	event, err := i.events.ByID(req.EventID)
	if err != nil {
		return models.Event{}, models.TicketOption{}, fmt.Errorf("%w: %w",
			apperr.InvalidBooking("eventId", fmt.Sprintf("event %d does not exist", req.EventID)), err)
	}
	if req.Quantity < models.MinTicketQuantity || req.Quantity > models.MaxTicketQuantity {
		return models.Event{}, models.TicketOption{}, apperr.InvalidBooking("ticketQuantity",
			fmt.Sprintf("quantity must be between %d and %d", models.MinTicketQuantity, models.MaxTicketQuantity))
	}
	option, ok := event.TicketOption(req.TicketType)
	if !ok {
		return models.Event{}, models.TicketOption{}, apperr.InvalidBooking("ticketType",
			fmt.Sprintf("ticket type %q is not offered", req.TicketType))
	}
	return event, option, nil
}

func (i *Issuer) wait(ctx context.Context) error {
	if i.delay <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrTimeout, err)
		}
		return nil
	}

	timer := time.NewTimer(i.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", apperr.ErrTimeout, ctx.Err())
	}
}

// nextID returns the millisecond timestamp of now, bumped past the last id
// so ids stay unique within the process.
func (i *Issuer) nextID(now time.Time) int64 {
	i.idMu.Lock()
	defer i.idMu.Unlock()

	id := now.UnixMilli()
	if id <= i.lastID {
		id = i.lastID + 1
	}
	i.lastID = id
	return id
}

func (i *Issuer) publish(ctx context.Context, b models.Booking) {
	if len(i.publishers) == 0 {
		return
	}
	evt := models.BookingConfirmedEvent{
		BookingID:      b.ID,
		EventID:        b.EventID,
		TicketType:     b.TicketType,
		TicketQuantity: b.TicketQuantity,
		BookedAt:       b.BookingDate,
	}
	for _, p := range i.publishers {
		if err := p.PublishBookingConfirmed(ctx, evt); err != nil {
			i.logger.Error("BOOKING", fmt.Sprintf("Failed to publish booking %d: %v", b.ID, err))
		}
	}
}
