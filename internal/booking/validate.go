package booking

import (
	"strings"

	"event-explorer/internal/apperr"
	"event-explorer/internal/models"
)

// ValidateAttendee checks the booking form, first failing field wins.
func ValidateAttendee(a models.Attendee) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperr.Invalid("name", "Please enter your name")
	}
	email := strings.TrimSpace(a.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Invalid("email", "Please enter a valid email address")
	}
	if strings.TrimSpace(a.Phone) == "" {
		return apperr.Invalid("phone", "Please enter your phone number")
	}
	return nil
}
