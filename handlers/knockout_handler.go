package handlers

import (
	"net/http"

	"github.com/openclassical/league-engine/services"
)

type KnockoutHandler struct {
	knockout services.KnockoutService
}

func NewKnockoutHandler(knockout services.KnockoutService) *KnockoutHandler {
	return &KnockoutHandler{knockout: knockout}
}

// CreateBracket godoc
// @Summary Open a knockout bracket for a season
// @Param id path int true "season id"
// @Param bracket body services.CreateBracketParams true "bracket parameters"
// @Success 201 {object} models.KnockoutBracket
// @Router /seasons/{id}/bracket [post]
func (h *KnockoutHandler) CreateBracket(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var params services.CreateBracketParams
	if err := readJSON(w, r, &params); err != nil {
		badRequestResponse(w, err)
		return
	}

	bracket, err := h.knockout.CreateBracket(r.Context(), seasonID, params)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bracket)
}

// GetBracket godoc
// @Summary Current bracket state for a season
// @Param id path int true "season id"
// @Success 200 {object} services.BracketState
// @Router /seasons/{id}/bracket [get]
func (h *KnockoutHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	state, err := h.knockout.BracketState(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// RecordResult godoc
// @Summary Record one game result in a knockout stage
// @Param id path int true "season id"
// @Router /seasons/{id}/bracket/results [post]
func (h *KnockoutHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		RoundNumber  int    `json:"round_number"`
		PairingOrder int    `json:"pairing_order"`
		Board        int    `json:"board"`
		Result       string `json:"result"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	err = h.knockout.RecordGameResult(r.Context(), seasonID, input.RoundNumber, input.PairingOrder, input.Board, input.Result)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "recorded"})
}

// RecordManualTiebreak godoc
// @Summary Resolve a tied knockout match by operator ruling
// @Param id path int true "season id"
// @Router /seasons/{id}/bracket/tiebreaks [post]
func (h *KnockoutHandler) RecordManualTiebreak(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		RoundNumber  int     `json:"round_number"`
		PairingOrder int     `json:"pairing_order"`
		Value        float64 `json:"value"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	err = h.knockout.RecordManualTiebreak(r.Context(), seasonID, input.RoundNumber, input.PairingOrder, input.Value)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "recorded"})
}

// GenerateNextLeg godoc
// @Summary Generate the next leg of a multi-leg stage
// @Param id path int true "season id"
// @Router /seasons/{id}/bracket/legs [post]
func (h *KnockoutHandler) GenerateNextLeg(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		RoundNumber int `json:"round_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.knockout.GenerateNextLeg(r.Context(), seasonID, input.RoundNumber); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "generated"})
}

// AdvanceRound godoc
// @Summary Close a completed stage and seed the next one
// @Param id path int true "season id"
// @Router /seasons/{id}/bracket/advance [post]
func (h *KnockoutHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		RoundNumber int `json:"round_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.knockout.AdvanceRound(r.Context(), seasonID, input.RoundNumber); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "advanced"})
}
