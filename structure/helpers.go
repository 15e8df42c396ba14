package structure

import (
	"sort"

	"github.com/openclassical/league-engine/scoring"
)

// BoardResult is one board of a team match: the two players and the result
// from player1's perspective.
type BoardResult struct {
	Player1ID int
	Player2ID int
	Result    GameResult
}

// NewSingleGameMatch builds a match with a single game, the common case for
// individual tournaments where the player id is the competitor id.
func NewSingleGameMatch(p1ID, p2ID int, result GameResult) Match {
	game := Game{
		Player1: Player{PlayerID: p1ID, CompetitorID: p1ID},
		Player2: Player{PlayerID: p2ID, CompetitorID: p2ID},
		Result:  result,
	}
	return Match{Competitor1ID: p1ID, Competitor2ID: p2ID, Games: []Game{game}}
}

// NewByeMatch builds a bye for a competitor. The dummy games carry the bye
// convention: a team bye is half wins, half draws (draw-equivalent), an
// individual bye is a single full win.
func NewByeMatch(competitorID, gamesPerMatch int) Match {
	var games []Game
	if gamesPerMatch > 1 {
		for i := 0; i < gamesPerMatch; i++ {
			g := Game{
				Player1: Player{PlayerID: i, CompetitorID: competitorID},
				Player2: Player{PlayerID: NoCompetitor, CompetitorID: NoCompetitor},
				Result:  Draw,
			}
			if i < gamesPerMatch/2 {
				g.Result = P1Win
			}
			games = append(games, g)
		}
	} else {
		gamesPerMatch = 1
		games = []Game{{
			Player1: Player{PlayerID: competitorID, CompetitorID: competitorID},
			Player2: Player{PlayerID: NoCompetitor, CompetitorID: NoCompetitor},
			Result:  P1Win,
		}}
	}
	return Match{
		Competitor1ID: competitorID,
		Competitor2ID: NoCompetitor,
		Games:         games,
		IsBye:         true,
		GamesPerMatch: gamesPerMatch,
	}
}

// NewTeamMatch builds a team match from ordered board results, assuming each
// board's player1 belongs to team1 and player2 to team2.
func NewTeamMatch(team1ID, team2ID int, boards []BoardResult) Match {
	return NewTeamMatchWithRoster(team1ID, team2ID, boards, nil)
}

// NewTeamMatchWithRoster builds a team match using an explicit player-to-team
// mapping, for callers whose board rows may list players in either order. A
// player id of NoCompetitor (a forfeited board) maps to no team.
func NewTeamMatchWithRoster(team1ID, team2ID int, boards []BoardResult, playerTeam map[int]int) Match {
	games := make([]Game, 0, len(boards))
	for _, b := range boards {
		p1Team, p2Team := team1ID, team2ID
		if playerTeam != nil {
			p1Team = rosterTeam(playerTeam, b.Player1ID, team1ID)
			p2Team = rosterTeam(playerTeam, b.Player2ID, team2ID)
		}
		games = append(games, Game{
			Player1: Player{PlayerID: b.Player1ID, CompetitorID: p1Team},
			Player2: Player{PlayerID: b.Player2ID, CompetitorID: p2Team},
			Result:  b.Result,
		})
	}
	return Match{Competitor1ID: team1ID, Competitor2ID: team2ID, Games: games}
}

func rosterTeam(playerTeam map[int]int, playerID, fallback int) int {
	if playerID == NoCompetitor {
		return NoCompetitor
	}
	if team, ok := playerTeam[playerID]; ok {
		return team
	}
	return fallback
}

// RoundMatch pairs a match with the round it belongs to, for
// NewTournamentFromMatches.
type RoundMatch struct {
	RoundNumber int
	Match       Match
}

// NewTournamentFromMatches groups (round, match) pairs into rounds and
// builds a Swiss tournament. Convenience for tests and converters.
func NewTournamentFromMatches(competitors []int, matches []RoundMatch, s scoring.System) Tournament {
	byRound := make(map[int][]Match)
	for _, rm := range matches {
		byRound[rm.RoundNumber] = append(byRound[rm.RoundNumber], rm.Match)
	}

	numbers := make([]int, 0, len(byRound))
	for n := range byRound {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	rounds := make([]Round, 0, len(numbers))
	for _, n := range numbers {
		rounds = append(rounds, Round{Number: n, Matches: byRound[n]})
	}

	return Tournament{
		Competitors: competitors,
		Rounds:      rounds,
		Scoring:     s,
		Format:      FormatSwiss,
	}
}
