package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gemfall/internal/api/request"
	"github.com/mcoot/gemfall/internal/api/response"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/profile"
)

// ProfileHandler handles AI profile endpoints
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileListFromModel(profiles))
}

// Get handles GET /api/v1/profiles/{name}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}

// Put handles PUT /api/v1/profiles/{name}
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req request.PutProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	saved, err := h.profiles.Save(r.Context(), model.Profile{
		Name:          mux.Vars(r)["name"],
		Side:          model.Side(req.Side),
		AverageWaitMs: req.AverageWaitMs,
		JitterMs:      req.JitterMs,
		Depth:         req.Depth,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(saved))
}

// Delete handles DELETE /api/v1/profiles/{name}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
