package models

import (
	"time"
)

type TicketType string

const (
	TicketGeneral TicketType = "general"
	TicketVIP     TicketType = "vip"
)

const BookingStatusConfirmed = "confirmed"

const (
	MinTicketQuantity = 1
	MaxTicketQuantity = 10
)

type TicketOption struct {
	Type        TicketType `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Description string     `json:"description"`
}

type BookingRequest struct {
	EventID    int        `json:"eventId"`
	Quantity   int        `json:"ticketQuantity"`
	TicketType TicketType `json:"ticketType"`
}

type Booking struct {
	ID             int64      `json:"id"`
	EventID        int        `json:"eventId"`
	TicketQuantity int        `json:"ticketQuantity"`
	TicketType     TicketType `json:"ticketType"`
	BookingDate    time.Time  `json:"bookingDate"`
	Status         string     `json:"status"`
	QRCode         string     `json:"qrCode"`
}

type Quote struct {
	EventID    int        `json:"eventId"`
	TicketType TicketType `json:"ticketType"`
	TicketName string     `json:"ticketName"`
	UnitPrice  float64    `json:"unitPrice"`
	Quantity   int        `json:"quantity"`
	Subtotal   float64    `json:"subtotal"`
	ServiceFee float64    `json:"serviceFee"`
	Total      float64    `json:"total"`
	Currency   string     `json:"currency"`
}

// Attendee is the contact block collected on the booking form.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingConfirmation is what the client renders after a successful booking.
type BookingConfirmation struct {
	Booking  Booking  `json:"booking"`
	Event    Event    `json:"event"`
	Quote    Quote    `json:"quote"`
	Attendee Attendee `json:"attendee"`
}

// BookingConfirmedEvent is published once a booking is issued.
type BookingConfirmedEvent struct {
	BookingID      int64      `json:"booking_id"`
	EventID        int        `json:"event_id"`
	TicketType     TicketType `json:"ticket_type"`
	TicketQuantity int        `json:"ticket_quantity"`
	BookedAt       time.Time  `json:"booked_at"`
}
