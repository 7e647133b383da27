package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"event-explorer/internal/models"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Profile retrieved", h.Profile.Get()))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	updated, err := h.Profile.Update(r.Context(), p)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Profile updated", updated))
}

// SetPreference expects {"enabled": bool}.
func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	updated, err := h.Profile.SetPreference(r.Context(), chi.URLParam(r, "name"), body.Enabled)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Preference updated", updated))
}

// ResetProfile signs the local user out: the profile goes back to the
// default and the favorites are cleared.
func (h *Handler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profile.Reset(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if err := h.Favorites.Clear(r.Context()); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, SuccessResponse("Profile reset", p))
}
