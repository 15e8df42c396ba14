package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openclassical/league-engine/convert"
	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/repositories"
	"github.com/openclassical/league-engine/scoring"
)

// resolvePreset maps a league's scoring preset name to a scoring system.
// The empty name means standard scoring; an unknown name is an error, never
// a silent fallback.
func resolvePreset(presets map[string]scoring.System, name string) (scoring.System, error) {
	if name == "" {
		return scoring.Standard, nil
	}
	if system, ok := presets[name]; ok {
		return system, nil
	}
	return scoring.System{}, fmt.Errorf("%w: %q", ErrUnknownScoringPreset, name)
}

// seasonLoader gathers every row conversion needs for a season. Both the
// standings and snapshot services go through it.
type seasonLoader struct {
	seasons repositories.SeasonRepository
	rounds  repositories.RoundRepository
}

func (l *seasonLoader) load(ctx context.Context, seasonID int) (convert.SeasonData, error) {
	season, err := l.seasons.GetByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return convert.SeasonData{}, ErrSeasonNotFound
		}
		return convert.SeasonData{}, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}

	teams, err := l.seasons.ListTeams(ctx, seasonID)
	if err != nil {
		return convert.SeasonData{}, fmt.Errorf("failed to load teams for season %d: %w", seasonID, err)
	}
	players, err := l.seasons.ListPlayers(ctx, seasonID)
	if err != nil {
		return convert.SeasonData{}, fmt.Errorf("failed to load players for season %d: %w", seasonID, err)
	}
	roundRows, err := l.rounds.ListBySeason(ctx, seasonID)
	if err != nil {
		return convert.SeasonData{}, fmt.Errorf("failed to load rounds for season %d: %w", seasonID, err)
	}

	isTeam := season.League != nil && season.League.CompetitorType == models.CompetitorTeam

	rounds := make([]convert.RoundData, 0, len(roundRows))
	for _, round := range roundRows {
		rd := convert.RoundData{Round: round}
		if isTeam {
			rd.TeamPairings, err = l.rounds.ListTeamPairings(ctx, round.ID)
			if err != nil {
				return convert.SeasonData{}, fmt.Errorf("failed to load team pairings for round %d: %w", round.ID, err)
			}
		} else {
			rd.LonePairings, err = l.rounds.ListLonePairings(ctx, round.ID)
			if err != nil {
				return convert.SeasonData{}, fmt.Errorf("failed to load pairings for round %d: %w", round.ID, err)
			}
			rd.Byes, err = l.rounds.ListByes(ctx, round.ID)
			if err != nil {
				return convert.SeasonData{}, fmt.Errorf("failed to load byes for round %d: %w", round.ID, err)
			}
		}
		rounds = append(rounds, rd)
	}

	data := convert.SeasonData{
		Season:  *season,
		Teams:   teams,
		Players: players,
		Rounds:  rounds,
	}
	if season.League != nil {
		data.League = *season.League
	}
	return data, nil
}
