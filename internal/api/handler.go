// Package api is the JSON-over-HTTP adapter in front of the catalog, query,
// favorites, profile and booking packages. Handlers translate, they do not
// decide.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"event-explorer/internal/apperr"
	"event-explorer/internal/booking"
	"event-explorer/internal/catalog"
	"event-explorer/internal/favorites"
	"event-explorer/internal/logger"
	"event-explorer/internal/profile"
	"event-explorer/internal/query"
	"event-explorer/internal/sse"
)

// ClientIDHeader keys stale-search discarding. Each client sends its own.
const ClientIDHeader = "X-Client-ID"

type Options struct {
	BookingTimeout time.Duration
	SearchDelay    time.Duration
	BookingRate    int
	AllowedOrigins []string
}

// Handler handles all event-explorer HTTP endpoints
type Handler struct {
	Catalog   *catalog.Store
	Favorites *favorites.Ledger
	Profile   *profile.Store
	Issuer    *booking.Issuer
	QR        *booking.QRGenerator
	PDF       *booking.TicketPDFGenerator
	Sequencer *query.Sequencer
	Stream    *sse.Emitter
	Logger    *logger.Logger
	Options   Options
}

// Router builds the chi router with middleware and every route registered.
func (h *Handler) Router() http.Handler {
	if h.Sequencer == nil {
		h.Sequencer = query.NewSequencer()
	}
	if h.QR == nil {
		h.QR = booking.NewQRGenerator(booking.DefaultQRSize)
	}
	if h.PDF == nil {
		h.PDF = booking.NewTicketPDFGenerator(h.QR)
	}
	if h.Stream == nil {
		h.Stream = sse.NewEmitter()
	}

	origins := h.Options.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", ClientIDHeader, RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	limiter := NewRateLimiter(h.Options.BookingRate)

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/featured", h.FeaturedEvents)
			r.Get("/{eventId}", h.GetEvent)
		})
		r.Get("/categories", h.Categories)
		r.Get("/cities", h.Cities)
		r.Get("/searches/popular", h.PopularSearches)
		r.Get("/stream", h.StreamUpdates)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.ListFavorites)
			r.Put("/{eventId}", h.AddFavorite)
			r.Delete("/{eventId}", h.RemoveFavorite)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Post("/quote", h.QuoteBooking)
			r.With(limiter.Limit).Post("/", h.CreateBooking)
			r.Get("/{bookingId}/qr.png", h.BookingQR)
			r.Get("/{bookingId}/ticket.pdf", h.BookingPDF)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Put("/", h.UpdateProfile)
			r.Delete("/", h.ResetProfile)
			r.Put("/preferences/{name}", h.SetPreference)
		})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("ok", map[string]int{
		"events":    h.Catalog.Len(),
		"favorites": len(h.Favorites.List()),
	}))
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(name, "must be an integer")
	}
	return id, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "must be an integer")
	}
	return id, nil
}
