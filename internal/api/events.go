package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"event-explorer/internal/models"
	"event-explorer/internal/query"
)

type eventList struct {
	Events []models.Event `json:"events"`
	Count  int            `json:"count"`
}

type eventDetail struct {
	Event       models.Event          `json:"event"`
	IsFavorite  bool                  `json:"isFavorite"`
	PriceLabel  string                `json:"priceLabel"`
	TicketTypes []models.TicketOption `json:"ticketTypes"`
}

// ListEvents runs the query engine over the catalog, or over the favorites
// when favorites=true. With X-Client-ID set, a search overtaken by a newer
// one from the same client answers 409 instead of stale results.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	spec := query.ParseSpec(params)

	source := h.Catalog.All()
	if ok, _ := strconv.ParseBool(params.Get("favorites")); ok {
		source = h.Favorites.Events(h.Catalog)
	}

	var result []models.Event
	search := func(ctx context.Context) error {
		if err := h.simulateLatency(ctx); err != nil {
			return err
		}
		result = query.Run(source, spec)
		return nil
	}

	var err error
	if clientID := r.Header.Get(ClientIDHeader); clientID != "" {
		err = h.Sequencer.Do(r.Context(), clientID, search)
	} else {
		err = search(r.Context())
	}
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	sendJSONResponse(w, http.StatusOK, SuccessResponse("Events retrieved", eventList{Events: result, Count: len(result)}))
}

func (h *Handler) simulateLatency(ctx context.Context) error {
	if h.Options.SearchDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(h.Options.SearchDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) FeaturedEvents(w http.ResponseWriter, r *http.Request) {
	events := h.Catalog.Featured()
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Featured events retrieved", eventList{Events: events, Count: len(events)}))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "eventId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	event, err := h.Catalog.ByID(id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	sendJSONResponse(w, http.StatusOK, SuccessResponse("Event retrieved", eventDetail{
		Event:       event,
		IsFavorite:  h.Favorites.IsFavorite(id),
		PriceLabel:  event.Price.Label(),
		TicketTypes: event.TicketTypes(),
	}))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Categories retrieved", h.Catalog.Categories()))
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Cities retrieved", h.Catalog.Cities()))
}

func (h *Handler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Popular searches retrieved", h.Catalog.PopularSearches()))
}
