package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/openclassical/league-engine/convert"
	"github.com/openclassical/league-engine/repositories"
	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
	"github.com/openclassical/league-engine/tiebreaks"
)

// DefaultTiebreakOrder is applied when a caller does not specify one.
var DefaultTiebreakOrder = []string{
	tiebreaks.TiebreakGamePoints,
	tiebreaks.TiebreakHeadToHead,
	tiebreaks.TiebreakGamesWon,
	tiebreaks.TiebreakSonnebornBerger,
	tiebreaks.TiebreakBuchholz,
}

// StandingsRow is one competitor's line in the standings table.
type StandingsRow struct {
	Rank         int                `json:"rank"`
	CompetitorID int                `json:"competitor_id"`
	MatchPoints  int                `json:"match_points"`
	GamePoints   float64            `json:"game_points"`
	Tiebreaks    map[string]float64 `json:"tiebreaks"`
}

// SeasonStandings is the computed table for one season.
type SeasonStandings struct {
	SeasonID      int            `json:"season_id"`
	SeasonName    string         `json:"season_name"`
	RoundsCounted int            `json:"rounds_counted"`
	TiebreakOrder []string       `json:"tiebreak_order"`
	Rows          []StandingsRow `json:"rows"`
}

type StandingsService interface {
	SeasonStandings(ctx context.Context, seasonID int, tiebreakOrder []string) (*SeasonStandings, error)
	LeagueStandings(ctx context.Context, leagueID int) ([]SeasonStandings, error)
	SeasonTournament(ctx context.Context, seasonID int) (structure.Tournament, error)
}

type standingsService struct {
	loader  seasonLoader
	leagues repositories.LeagueRepository
	seasons repositories.SeasonRepository
	presets map[string]scoring.System
}

func NewStandingsService(
	leagueRepo repositories.LeagueRepository,
	seasonRepo repositories.SeasonRepository,
	roundRepo repositories.RoundRepository,
	presets map[string]scoring.System,
) StandingsService {
	return &standingsService{
		loader:  seasonLoader{seasons: seasonRepo, rounds: roundRepo},
		leagues: leagueRepo,
		seasons: seasonRepo,
		presets: presets,
	}
}

// SeasonTournament loads a season's rows and converts them to the immutable
// tournament structure.
func (s *standingsService) SeasonTournament(ctx context.Context, seasonID int) (structure.Tournament, error) {
	data, err := s.loader.load(ctx, seasonID)
	if err != nil {
		return structure.Tournament{}, err
	}

	system, err := resolvePreset(s.presets, data.League.ScoringPreset)
	if err != nil {
		return structure.Tournament{}, err
	}
	return convert.SeasonTournament(data, &system)
}

func (s *standingsService) SeasonStandings(ctx context.Context, seasonID int, tiebreakOrder []string) (*SeasonStandings, error) {
	data, err := s.loader.load(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	system, err := resolvePreset(s.presets, data.League.ScoringPreset)
	if err != nil {
		return nil, err
	}
	tournament, err := convert.SeasonTournament(data, &system)
	if err != nil {
		return nil, fmt.Errorf("failed to convert season %d: %w", seasonID, err)
	}

	if len(tiebreakOrder) == 0 {
		tiebreakOrder = DefaultTiebreakOrder
	}

	results := tournament.CalculateResults()
	tiebreakValues := tiebreaks.CalculateAll(results, tiebreakOrder)

	rows := make([]StandingsRow, 0, len(results))
	for id, score := range results {
		rows = append(rows, StandingsRow{
			CompetitorID: id,
			MatchPoints:  score.MatchPoints,
			GamePoints:   score.GamePoints,
			Tiebreaks:    tiebreakValues[id],
		})
	}
	sortStandings(rows, tiebreakOrder)
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return &SeasonStandings{
		SeasonID:      seasonID,
		SeasonName:    data.Season.Name,
		RoundsCounted: tournament.NumRounds(),
		TiebreakOrder: tiebreakOrder,
		Rows:          rows,
	}, nil
}

// LeagueStandings computes standings for every season of a league
// concurrently; one failed season fails the whole call.
func (s *standingsService) LeagueStandings(ctx context.Context, leagueID int) ([]SeasonStandings, error) {
	if _, err := s.leagues.GetByID(ctx, leagueID); err != nil {
		return nil, ErrLeagueNotFound
	}

	seasons, err := s.seasons.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons for league %d: %w", leagueID, err)
	}

	standings := make([]SeasonStandings, len(seasons))
	g, gctx := errgroup.WithContext(ctx)
	for i, season := range seasons {
		i, season := i, season
		g.Go(func() error {
			result, err := s.SeasonStandings(gctx, season.ID, nil)
			if err != nil {
				return fmt.Errorf("season %d: %w", season.ID, err)
			}
			standings[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return standings, nil
}

// sortStandings orders rows by match points, then the tiebreak columns in
// their configured order, then competitor id for a stable total order.
func sortStandings(rows []StandingsRow, tiebreakOrder []string) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MatchPoints != b.MatchPoints {
			return a.MatchPoints > b.MatchPoints
		}
		for _, name := range tiebreakOrder {
			if a.Tiebreaks[name] != b.Tiebreaks[name] {
				return a.Tiebreaks[name] > b.Tiebreaks[name]
			}
		}
		return a.CompetitorID < b.CompetitorID
	})
}
