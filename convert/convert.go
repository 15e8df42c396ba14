// Package convert maps persistence rows to immutable tournament structures.
// Conversion is pure: callers load the rows, conversion never touches the
// database.
package convert

import (
	"fmt"
	"sort"

	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

// RoundData is one stored round with its pairings. Team seasons fill
// TeamPairings; lone seasons fill LonePairings and Byes.
type RoundData struct {
	Round        models.Round
	TeamPairings []models.TeamPairing
	LonePairings []models.BoardPairing
	Byes         []models.PlayerBye
}

// SeasonData is everything conversion needs for one season.
type SeasonData struct {
	League  models.League
	Season  models.Season
	Teams   []models.Team
	Players []models.SeasonPlayer
	Rounds  []RoundData
}

// SeasonTournament converts a season's stored rounds to a Tournament. Only
// rounds marked completed are included. A nil scoring system means the
// standard one.
func SeasonTournament(data SeasonData, s *scoring.System) (structure.Tournament, error) {
	sys := scoring.Standard
	if s != nil {
		sys = *s
	}
	if data.League.CompetitorType == models.CompetitorTeam {
		return teamTournament(data, sys)
	}
	return loneTournament(data, sys)
}

func teamTournament(data SeasonData, sys scoring.System) (structure.Tournament, error) {
	teams := make([]int, 0, len(data.Teams))
	playerTeam := make(map[int]int)
	for _, t := range data.Teams {
		teams = append(teams, t.ID)
	}
	for _, sp := range data.Players {
		if sp.TeamID != nil {
			playerTeam[sp.PlayerID] = *sp.TeamID
		}
	}

	boards := 1
	if data.Season.Boards != nil && *data.Season.Boards > 0 {
		boards = *data.Season.Boards
	}

	var rounds []structure.Round
	for _, rd := range sortedRounds(data.Rounds) {
		if !rd.Round.IsCompleted {
			continue
		}

		var matches []structure.Match
		for _, tp := range rd.TeamPairings {
			if len(tp.Boards) == 0 {
				return structure.Tournament{}, fmt.Errorf(
					"team pairing %d vs %d in round %d has no board rows",
					tp.WhiteTeamID, tp.BlackTeamID, rd.Round.Number)
			}

			results, err := boardResults(tp.Boards)
			if err != nil {
				return structure.Tournament{}, fmt.Errorf("round %d: %w", rd.Round.Number, err)
			}
			if len(results) == 0 {
				continue
			}
			matches = append(matches,
				structure.NewTeamMatchWithRoster(tp.WhiteTeamID, tp.BlackTeamID, results, playerTeam))
		}

		played := playedSet(matches)
		for _, t := range teams {
			if _, ok := played[t]; !ok {
				matches = append(matches, structure.NewByeMatch(t, boards))
			}
		}

		if len(matches) > 0 {
			rounds = append(rounds, structure.Round{Number: rd.Round.Number, Matches: matches})
		}
	}

	return structure.Tournament{
		Competitors: teams,
		Rounds:      rounds,
		Scoring:     sys,
		Format:      structure.FormatSwiss,
	}, nil
}

func loneTournament(data SeasonData, sys scoring.System) (structure.Tournament, error) {
	players := make([]int, 0, len(data.Players))
	for _, sp := range data.Players {
		players = append(players, sp.PlayerID)
	}

	var rounds []structure.Round
	for _, rd := range sortedRounds(data.Rounds) {
		if !rd.Round.IsCompleted {
			continue
		}

		var matches []structure.Match
		for _, p := range rd.LonePairings {
			if p.WhiteID == 0 || p.BlackID == 0 {
				continue
			}
			result, ok, err := parseStoredResult(p.Result, p.ColorsReversed)
			if err != nil {
				return structure.Tournament{}, fmt.Errorf("round %d: %w", rd.Round.Number, err)
			}
			if !ok {
				continue
			}
			matches = append(matches, structure.NewSingleGameMatch(p.WhiteID, p.BlackID, result))
		}

		for _, bye := range rd.Byes {
			matches = append(matches, structure.NewByeMatch(bye.PlayerID, 1))
		}

		played := playedSet(matches)
		for _, p := range players {
			if _, ok := played[p]; !ok {
				matches = append(matches, structure.NewByeMatch(p, 1))
			}
		}

		if len(matches) > 0 {
			rounds = append(rounds, structure.Round{Number: rd.Round.Number, Matches: matches})
		}
	}

	return structure.Tournament{
		Competitors: players,
		Rounds:      rounds,
		Scoring:     sys,
		Format:      structure.FormatSwiss,
	}, nil
}

// boardResults turns stored board rows into team-first results. Boards
// alternate colors: on odd boards the white team's player has white; on even
// boards the seats and the result are swapped so player1 always belongs to
// the white (first) team.
func boardResults(rows []models.BoardPairing) ([]structure.BoardResult, error) {
	sorted := make([]models.BoardPairing, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Board < sorted[j].Board })

	var results []structure.BoardResult
	for _, row := range sorted {
		if row.WhiteID == 0 || row.BlackID == 0 {
			continue
		}
		result, ok, err := parseStoredResult(row.Result, row.ColorsReversed)
		if err != nil {
			return nil, fmt.Errorf("board %d: %w", row.Board, err)
		}
		if !ok {
			continue
		}

		if row.Board%2 == 1 {
			results = append(results, structure.BoardResult{
				Player1ID: row.WhiteID,
				Player2ID: row.BlackID,
				Result:    result,
			})
		} else {
			results = append(results, structure.BoardResult{
				Player1ID: row.BlackID,
				Player2ID: row.WhiteID,
				Result:    result.Reversed(),
			})
		}
	}
	return results, nil
}

// parseStoredResult translates a stored result string, applying the
// color-reversal correction. An empty string means no result yet (skipped);
// any other unrecognized string is a hard error.
func parseStoredResult(raw string, colorsReversed bool) (structure.GameResult, bool, error) {
	if raw == "" {
		return "", false, nil
	}
	result, err := structure.ParseGameResult(raw)
	if err != nil {
		return "", false, err
	}
	if colorsReversed {
		result = result.Reversed()
	}
	return result, true, nil
}

func playedSet(matches []structure.Match) map[int]struct{} {
	played := make(map[int]struct{}, 2*len(matches))
	for _, m := range matches {
		played[m.Competitor1ID] = struct{}{}
		if m.Competitor2ID != structure.NoCompetitor {
			played[m.Competitor2ID] = struct{}{}
		}
	}
	return played
}

func sortedRounds(rounds []RoundData) []RoundData {
	out := make([]RoundData, len(rounds))
	copy(out, rounds)
	sort.Slice(out, func(i, j int) bool { return out[i].Round.Number < out[j].Round.Number })
	return out
}
