package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gemfall/internal/api/request"
	"github.com/mcoot/gemfall/internal/api/response"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/simulation"
)

// MaxBatch is the most games one request may run
const MaxBatch = 100

// SimulationHandler handles simulation endpoints
type SimulationHandler struct {
	simulations *simulation.Service
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simulations *simulation.Service) *SimulationHandler {
	return &SimulationHandler{simulations: simulations}
}

// Create handles POST /api/v1/simulations. A count above one runs a batch
// and responds with a list.
func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Count < 0 || req.Count > MaxBatch {
		WriteError(w, NewInvalidRequestError(fmt.Sprintf("count must be between 1 and %d", MaxBatch)))
		return
	}

	reqs := req.Requests()
	if len(reqs) == 1 {
		result, err := h.simulations.Run(r.Context(), reqs[0])
		if err != nil {
			WriteError(w, err)
			return
		}
		response.Created(w, "/api/v1/simulations/"+string(result.ID), response.SimulationFromModel(result))
		return
	}

	results, err := h.simulations.RunBatch(r.Context(), reqs)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SimulationListFromModel(results))
}

// List handles GET /api/v1/simulations
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.simulations.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SimulationListFromModel(results))
}

// Get handles GET /api/v1/simulations/{id}
func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.simulations.Get(r.Context(), model.SimulationID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SimulationFromModel(result))
}
