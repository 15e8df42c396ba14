package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclassical/league-engine/services"
)

type LeagueHandler struct {
	leagues   services.LeagueService
	standings services.StandingsService
}

func NewLeagueHandler(leagues services.LeagueService, standings services.StandingsService) *LeagueHandler {
	return &LeagueHandler{leagues: leagues, standings: standings}
}

// List godoc
// @Summary List leagues
// @Param active query bool false "only active leagues"
// @Success 200 {array} models.League
// @Router /leagues [get]
func (h *LeagueHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	leagues, err := h.leagues.List(r.Context(), activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

// GetByTag godoc
// @Summary Get a league by its tag
// @Param tag path string true "league tag"
// @Success 200 {object} models.League
// @Router /leagues/{tag} [get]
func (h *LeagueHandler) GetByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	league, err := h.leagues.GetByTag(r.Context(), tag)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

// ListSeasons godoc
// @Summary List a league's seasons
// @Param tag path string true "league tag"
// @Success 200 {array} models.Season
// @Router /leagues/{tag}/seasons [get]
func (h *LeagueHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagues.GetByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	seasons, err := h.leagues.ListSeasons(r.Context(), league.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

// Standings godoc
// @Summary Standings for every season of a league
// @Param tag path string true "league tag"
// @Success 200 {array} services.SeasonStandings
// @Router /leagues/{tag}/standings [get]
func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagues.GetByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	standings, err := h.standings.LeagueStandings(r.Context(), league.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
