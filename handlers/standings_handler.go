package handlers

import (
	"net/http"
	"strings"

	"github.com/openclassical/league-engine/services"
)

type StandingsHandler struct {
	standings services.StandingsService
	snapshots services.SnapshotService
}

func NewStandingsHandler(standings services.StandingsService, snapshots services.SnapshotService) *StandingsHandler {
	return &StandingsHandler{standings: standings, snapshots: snapshots}
}

// SeasonStandings godoc
// @Summary Standings table for a season
// @Param id path int true "season id"
// @Param tiebreaks query string false "comma-separated tiebreak order"
// @Success 200 {object} services.SeasonStandings
// @Router /seasons/{id}/standings [get]
func (h *StandingsHandler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var order []string
	if raw := r.URL.Query().Get("tiebreaks"); raw != "" {
		order = strings.Split(raw, ",")
	}

	standings, err := h.standings.SeasonStandings(r.Context(), seasonID, order)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// SeasonTournament godoc
// @Summary Full immutable tournament structure for a season
// @Param id path int true "season id"
// @Success 200 {object} structure.Tournament
// @Router /seasons/{id}/tournament [get]
func (h *StandingsHandler) SeasonTournament(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	tournament, err := h.standings.SeasonTournament(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tournament)
}

// ArchiveSnapshot godoc
// @Summary Archive the season's tournament state to the object store
// @Param id path int true "season id"
// @Success 201 {object} storage.UploadResult
// @Router /seasons/{id}/snapshots [post]
func (h *StandingsHandler) ArchiveSnapshot(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	result, err := h.snapshots.ArchiveSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
