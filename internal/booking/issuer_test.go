package booking_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"event-explorer/internal/apperr"
	"event-explorer/internal/booking"
	"event-explorer/internal/catalog"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// MockPublisher is a mock implementation of the booking Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingConfirmed(ctx context.Context, evt models.BookingConfirmedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func newCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	cat, err := catalog.Load(context.Background(), nil, logger.Nop())
	require.NoError(t, err)
	return cat
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestBookVIPScenario(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(0))

	b, err := issuer.Book(context.Background(), models.BookingRequest{EventID: 1, Quantity: 2, TicketType: models.TicketVIP})
	require.NoError(t, err)
	assert.Equal(t, 2, b.TicketQuantity)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.NotEmpty(t, b.QRCode)
	assert.Equal(t, models.TicketVIP, b.TicketType)
	assert.Equal(t, 1, b.EventID)
}

func TestBookingIDsAreUniqueAndMonotonic(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(0), booking.WithClock(fixedClock(now)))
	req := models.BookingRequest{EventID: 3, Quantity: 1, TicketType: models.TicketGeneral}

	first, err := issuer.Book(context.Background(), req)
	require.NoError(t, err)
	second, err := issuer.Book(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), first.ID)
	assert.Equal(t, first.ID+1, second.ID)
	assert.Equal(t, "QR-1754049600000", first.QRCode)
	assert.NotEqual(t, first.QRCode, second.QRCode)
	assert.Equal(t, now, first.BookingDate)
}

func TestConcurrentBookingIDs(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(0))
	req := models.BookingRequest{EventID: 2, Quantity: 1, TicketType: models.TicketGeneral}

	var (
		mu   sync.Mutex
		seen = map[int64]bool{}
		wg   sync.WaitGroup
	)
	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := issuer.Book(context.Background(), req)
			assert.NoError(t, err)
			mu.Lock()
			seen[b.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestBookRejectsInvalidRequests(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(0))

	cases := []struct {
		name  string
		req   models.BookingRequest
		field string
	}{
		{"unknown event", models.BookingRequest{EventID: 999, Quantity: 1, TicketType: models.TicketGeneral}, "eventId"},
		{"zero quantity", models.BookingRequest{EventID: 1, Quantity: 0, TicketType: models.TicketGeneral}, "ticketQuantity"},
		{"too many", models.BookingRequest{EventID: 1, Quantity: 11, TicketType: models.TicketGeneral}, "ticketQuantity"},
		{"unknown ticket type", models.BookingRequest{EventID: 1, Quantity: 1, TicketType: "backstage"}, "ticketType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Book(context.Background(), tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidBooking)
			ve, ok := apperr.IsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	_, err := issuer.Book(context.Background(), cases[0].req)
	assert.True(t, apperr.IsNotFound(err), "unknown event also matches ErrNotFound")
}

func TestBookHonoursCancellation(t *testing.T) {
	pub := new(MockPublisher)
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(time.Hour), booking.WithPublisher(pub))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := issuer.Book(ctx, models.BookingRequest{EventID: 1, Quantity: 1, TicketType: models.TicketGeneral})
	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	pub.AssertNotCalled(t, "PublishBookingConfirmed", mock.Anything, mock.Anything)
}

func TestBookWaitsForDelay(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(30*time.Millisecond))

	start := time.Now()
	_, err := issuer.Book(context.Background(), models.BookingRequest{EventID: 1, Quantity: 1, TicketType: models.TicketGeneral})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestBookPublishes(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	pub := new(MockPublisher)
	pub.On("PublishBookingConfirmed", mock.Anything, models.BookingConfirmedEvent{
		BookingID:      now.UnixMilli(),
		EventID:        4,
		TicketType:     models.TicketGeneral,
		TicketQuantity: 3,
		BookedAt:       now,
	}).Return(errors.New("broker unavailable"))

	var buf bytes.Buffer
	issuer := booking.NewIssuer(newCatalog(t),
		booking.WithDelay(0),
		booking.WithClock(fixedClock(now)),
		booking.WithPublisher(pub),
		booking.WithLogger(logger.NewWithWriter(&buf, logger.DEBUG)),
	)

	_, err := issuer.Book(context.Background(), models.BookingRequest{EventID: 4, Quantity: 3, TicketType: models.TicketGeneral})
	require.NoError(t, err, "publish failure does not fail the booking")
	pub.AssertExpectations(t)
	assert.Contains(t, buf.String(), "Failed to publish booking")
}

func TestQuote(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t))

	q, err := issuer.Quote(models.BookingRequest{EventID: 1, Quantity: 2, TicketType: models.TicketVIP})
	require.NoError(t, err)
	assert.Equal(t, "VIP Pass", q.TicketName)
	assert.Equal(t, 250.0, q.UnitPrice)
	assert.Equal(t, 500.0, q.Subtotal)
	assert.Equal(t, booking.DefaultServiceFee, q.ServiceFee)
	assert.Equal(t, 505.0, q.Total)
	assert.Equal(t, "USD", q.Currency)

	free, err := issuer.Quote(models.BookingRequest{EventID: 4, Quantity: 4, TicketType: models.TicketGeneral})
	require.NoError(t, err)
	assert.Zero(t, free.Total)

	_, err = issuer.Quote(models.BookingRequest{EventID: 1, Quantity: 20, TicketType: models.TicketVIP})
	assert.ErrorIs(t, err, apperr.ErrInvalidBooking)
}

func TestValidateAttendee(t *testing.T) {
	ok := models.Attendee{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
	assert.NoError(t, booking.ValidateAttendee(ok))

	cases := map[string]models.Attendee{
		"name":  {Name: "  ", Email: ok.Email, Phone: ok.Phone},
		"email": {Name: ok.Name, Email: "ada.example.com", Phone: ok.Phone},
		"phone": {Name: ok.Name, Email: ok.Email},
	}
	for field, a := range cases {
		ve, isValidation := apperr.IsValidation(booking.ValidateAttendee(a))
		require.True(t, isValidation, field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestConfirmRecordsReceipt(t *testing.T) {
	issuer := booking.NewIssuer(newCatalog(t), booking.WithDelay(0))
	attendee := models.Attendee{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}

	_, err := issuer.Confirm(context.Background(), models.BookingRequest{EventID: 1, Quantity: 1, TicketType: models.TicketGeneral}, models.Attendee{})
	assert.Error(t, err)
	assert.Empty(t, issuer.Receipts().List())

	conf, err := issuer.Confirm(context.Background(), models.BookingRequest{EventID: 5, Quantity: 2, TicketType: models.TicketGeneral}, attendee)
	require.NoError(t, err)
	assert.Equal(t, "Chicago Tech Innovation Day", conf.Event.Name)
	assert.Equal(t, 155.0, conf.Quote.Total)

	got, err := issuer.Receipts().Get(conf.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, conf, got)

	_, err = issuer.Receipts().Get(1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
