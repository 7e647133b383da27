package models

import (
	"fmt"
	"time"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Venue struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Capacity    int          `json:"capacity"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Price struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// IsFree reports whether every ticket of the event costs nothing.
func (p Price) IsFree() bool {
	return p.Min == 0 && p.Max == 0
}

// Label renders the price the way event cards show it: "Free", "$45" or "$45 - $125".
func (p Price) Label() string {
	if p.IsFree() {
		return "Free"
	}
	if p.Min == p.Max {
		return fmt.Sprintf("$%g", p.Min)
	}
	return fmt.Sprintf("$%g - $%g", p.Min, p.Max)
}

type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Event struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	Subcategory    string      `json:"subcategory"`
	Description    string      `json:"description"`
	StartDateTime  time.Time   `json:"startDateTime"`
	EndDateTime    time.Time   `json:"endDateTime"`
	Venue          Venue       `json:"venue"`
	Price          Price       `json:"price"`
	Organizer      string      `json:"organizer"`
	Image          string      `json:"image,omitempty"`
	Tags           []string    `json:"tags"`
	Attendees      int         `json:"attendees"`
	Rating         float64     `json:"rating"`
	IsFeatured     bool        `json:"isFeatured"`
	IsOnline       bool        `json:"isOnline"`
	AgeRestriction *string     `json:"ageRestriction"`
	ContactInfo    ContactInfo `json:"contactInfo"`
}

// Validate checks the record invariants a catalog entry must hold.
func (e Event) Validate() error {
	if e.EndDateTime.Before(e.StartDateTime) {
		return fmt.Errorf("event %d: end %s before start %s", e.ID,
			e.EndDateTime.Format(time.RFC3339), e.StartDateTime.Format(time.RFC3339))
	}
	if e.Price.Min < 0 || e.Price.Min > e.Price.Max {
		return fmt.Errorf("event %d: invalid price range [%g, %g]", e.ID, e.Price.Min, e.Price.Max)
	}
	if e.Rating < 0 || e.Rating > 5 {
		return fmt.Errorf("event %d: rating %g outside [0, 5]", e.ID, e.Rating)
	}
	if e.Attendees < 0 {
		return fmt.Errorf("event %d: negative attendees", e.ID)
	}
	return nil
}

// TicketTypes lists the ticket options an event offers, general first.
func (e Event) TicketTypes() []TicketOption {
	return []TicketOption{
		{
			Type:        TicketGeneral,
			Name:        "General Admission",
			Price:       e.Price.Min,
			Description: "Standard access to the event",
		},
		{
			Type:        TicketVIP,
			Name:        "VIP Pass",
			Price:       e.Price.Max,
			Description: "Premium access with exclusive benefits",
		},
	}
}

// TicketOption returns the offered option of the given type.
func (e Event) TicketOption(t TicketType) (TicketOption, bool) {
	for _, opt := range e.TicketTypes() {
		if opt.Type == t {
			return opt, true
		}
	}
	return TicketOption{}, false
}
