package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"event-explorer/internal/apperr"
	"event-explorer/internal/models"
)

type createBookingRequest struct {
	models.BookingRequest
	Attendee models.Attendee `json:"attendee"`
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("", "Invalid request body: "+err.Error())
	}
	return nil
}

func (h *Handler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	quote, err := h.Issuer.Quote(req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Quote calculated", quote))
}

// CreateBooking books under the configured deadline. A timeout is reported,
// not retried.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	ctx := r.Context()
	if h.Options.BookingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Options.BookingTimeout)
		defer cancel()
	}

	conf, err := h.Issuer.Confirm(ctx, req.BookingRequest, req.Attendee)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/bookings/%d/ticket.pdf", conf.Booking.ID))
	sendJSONResponse(w, http.StatusCreated, SuccessResponse("Booking confirmed", conf))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Bookings retrieved", h.Issuer.Receipts().List()))
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) (models.BookingConfirmation, bool) {
	id, err := int64Param(r, "bookingId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return models.BookingConfirmation{}, false
	}
	conf, err := h.Issuer.Receipts().Get(id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return models.BookingConfirmation{}, false
	}
	return conf, true
}

func (h *Handler) BookingQR(w http.ResponseWriter, r *http.Request) {
	conf, ok := h.receipt(w, r)
	if !ok {
		return
	}

	png, err := h.QR.PNG(conf.Booking.QRCode)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) BookingPDF(w http.ResponseWriter, r *http.Request) {
	conf, ok := h.receipt(w, r)
	if !ok {
		return
	}

	pdf, err := h.PDF.Generate(conf)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%d.pdf", conf.Booking.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
