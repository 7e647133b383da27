package api

import (
	"net/http"

	"event-explorer/internal/models"
)

type favoritesView struct {
	IDs    []int          `json:"ids"`
	Events []models.Event `json:"events"`
}

func (h *Handler) favoritesView() favoritesView {
	return favoritesView{IDs: h.Favorites.List(), Events: h.Favorites.Events(h.Catalog)}
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Favorites retrieved", h.favoritesView()))
}

// AddFavorite only accepts ids the catalog knows.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "eventId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if _, err := h.Catalog.ByID(id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if err := h.Favorites.Add(r.Context(), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Added to favorites", h.favoritesView()))
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "eventId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if err := h.Favorites.Remove(r.Context(), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Removed from favorites", h.favoritesView()))
}
