package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mport/typeduel/internal/api/response"
	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/services/passage"
)

// PassageHandler serves the texts players race through
type PassageHandler struct {
	passageService *passage.Service
}

// NewPassageHandler creates a new passage handler
func NewPassageHandler(passageService *passage.Service) *PassageHandler {
	return &PassageHandler{
		passageService: passageService,
	}
}

// GetRandom handles GET /api/v1/text. Clients call it at race start; both
// players of a match are expected to fetch and agree on the same passage ID
// via their own match setup exchange.
func (h *PassageHandler) GetRandom(w http.ResponseWriter, r *http.Request) {
	p, err := h.passageService.Random(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PassageFromModel(p))
}

// Get handles GET /api/v1/text/{id}
func (h *PassageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.passageService.Get(r.Context(), model.PassageID(id))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PassageFromModel(p))
}
