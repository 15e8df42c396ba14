// Package structure models a complete tournament as competitors, rounds,
// matches and games, together with the aggregation that turns game results
// into match and game points.
//
// Every type here is an immutable value: "updating" a round or tournament
// means constructing a new value that shares unchanged substructure. A
// Tournament snapshot taken mid-season therefore stays valid for standings
// comparisons no matter what is built from it afterwards.
package structure

import (
	"fmt"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/tiebreaks"
)

// NoCompetitor is the placeholder id used for the missing side of a bye and
// for knockout slots not yet filled by an advancing competitor.
const NoCompetitor = -1

// GameResult is the outcome of a single game from player 1's perspective.
// The string values are the wire vocabulary used by the persistence layer
// and must be preserved verbatim.
type GameResult string

const (
	P1Win         GameResult = "1-0"
	Draw          GameResult = "1/2-1/2"
	P2Win         GameResult = "0-1"
	P1ForfeitWin  GameResult = "1X-0F"
	P2ForfeitWin  GameResult = "0F-1X"
	DoubleForfeit GameResult = "0F-0F"
)

// ParseGameResult converts a stored result string into a GameResult. Any
// string outside the six-token vocabulary is a hard error, never a default.
func ParseGameResult(s string) (GameResult, error) {
	switch GameResult(s) {
	case P1Win, Draw, P2Win, P1ForfeitWin, P2ForfeitWin, DoubleForfeit:
		return GameResult(s), nil
	}
	return "", fmt.Errorf("unrecognized game result %q", s)
}

// Reversed returns the result seen from the other side of the board, used
// when a stored pairing has its colors reversed.
func (r GameResult) Reversed() GameResult {
	switch r {
	case P1Win:
		return P2Win
	case P2Win:
		return P1Win
	case P1ForfeitWin:
		return P2ForfeitWin
	case P2ForfeitWin:
		return P1ForfeitWin
	}
	return r
}

// Player identifies a player and the competitor (team) they play for. In
// individual tournaments the player id doubles as the competitor id.
type Player struct {
	PlayerID     int `json:"player_id"`
	CompetitorID int `json:"competitor_id"`
}

// Game is a single contest between two players. For team matches the players
// are the board occupants while the match itself is between the teams.
type Game struct {
	Player1 Player     `json:"player1"`
	Player2 Player     `json:"player2"`
	Result  GameResult `json:"result"`
}

// Points returns (player1 points, player2 points) under the given scoring.
// Forfeit wins score like played wins; a double forfeit scores nothing.
func (g Game) Points(s scoring.System) (float64, float64) {
	switch g.Result {
	case P1Win, P1ForfeitWin:
		return s.GameWinPoints, s.GameLossPoints
	case P2Win, P2ForfeitWin:
		return s.GameLossPoints, s.GameWinPoints
	case Draw:
		return s.GameDrawPoints, s.GameDrawPoints
	}
	return 0, 0
}

// WinnerID returns the winning player's id, or nil for a draw or double
// forfeit. Forfeit results always resolve to a winner even though no game
// was played.
func (g Game) WinnerID() *int {
	switch g.Result {
	case P1Win, P1ForfeitWin:
		id := g.Player1.PlayerID
		return &id
	case P2Win, P2ForfeitWin:
		id := g.Player2.PlayerID
		return &id
	}
	return nil
}

// Match is one contest between two competitors, made up of one or more
// games. For team matches the games must be ordered so that each game's
// player1 belongs to competitor1's roster; conversion code that violates
// this silently swaps win/loss attribution.
type Match struct {
	Competitor1ID int    `json:"competitor1_id"`
	Competitor2ID int    `json:"competitor2_id"`
	Games         []Game `json:"games"`
	IsBye         bool   `json:"is_bye"`

	// GamesPerMatch is the number of games the pairing is scheduled to
	// play, used for knockout matches created before any results exist
	// and for bye point calculation.
	GamesPerMatch int `json:"games_per_match,omitempty"`

	// ManualTiebreak resolves a tied match: positive favors competitor1,
	// negative competitor2. Nil or zero leaves the match unresolved.
	ManualTiebreak *float64 `json:"manual_tiebreak,omitempty"`
}

// WithManualTiebreak returns a copy of the match carrying the given manual
// tiebreak value.
func (m Match) WithManualTiebreak(value float64) Match {
	out := m
	out.ManualTiebreak = &value
	return out
}

// gameTotals sums game points and decisive-game wins per competitor,
// attributing each game by the roster its player1 belongs to.
func (m Match) gameTotals(s scoring.System) (c1Pts, c2Pts float64, c1Wins, c2Wins int) {
	for _, g := range m.Games {
		p1, p2 := g.Points(s)
		if g.Player1.CompetitorID == m.Competitor1ID {
			c1Pts += p1
			c2Pts += p2
			switch g.Result {
			case P1Win, P1ForfeitWin:
				c1Wins++
			case P2Win, P2ForfeitWin:
				c2Wins++
			}
		} else {
			c1Pts += p2
			c2Pts += p1
			switch g.Result {
			case P1Win, P1ForfeitWin:
				c2Wins++
			case P2Win, P2ForfeitWin:
				c1Wins++
			}
		}
	}
	return
}

// byeGameCount is the number of games a bye stands in for.
func (m Match) byeGameCount() int {
	if m.GamesPerMatch > 0 {
		return m.GamesPerMatch
	}
	if len(m.Games) > 0 {
		return len(m.Games)
	}
	return 1
}

// GamePoints returns total (competitor1, competitor2) game points.
//
// Byes are special-cased: an individual bye (one game) scores a full win,
// while a team bye scores the configured fraction of the maximum board
// points — a draw-equivalent by default — so byes do not inflate game-point
// tiebreaks in team events.
func (m Match) GamePoints(s scoring.System) (float64, float64) {
	if m.IsBye {
		n := m.byeGameCount()
		if n == 1 {
			return s.GameWinPoints, 0
		}
		return s.GameWinPoints * float64(n) * s.ByeGamePointsFactor, 0
	}
	c1, c2, _, _ := m.gameTotals(s)
	return c1, c2
}

// GamesWon counts decisive games per side, ignoring draws. Byes count zero.
func (m Match) GamesWon() (int, int) {
	if m.IsBye {
		return 0, 0
	}
	_, _, c1, c2 := m.gameTotals(scoring.Standard)
	return c1, c2
}

// WinnerID determines the match winner: by aggregate game points when they
// differ, by the manual tiebreak sign when tied, otherwise nil — the match
// is unresolved and the caller must escalate.
func (m Match) WinnerID(s scoring.System) *int {
	c1, c2 := m.GamePoints(s)
	switch {
	case c1 > c2:
		id := m.Competitor1ID
		return &id
	case c2 > c1:
		id := m.Competitor2ID
		return &id
	}
	if m.ManualTiebreak != nil {
		switch {
		case *m.ManualTiebreak > 0:
			id := m.Competitor1ID
			return &id
		case *m.ManualTiebreak < 0:
			id := m.Competitor2ID
			return &id
		}
	}
	return nil
}

// Round is a numbered (1-indexed) list of matches. KnockoutStage carries the
// stage label for knockout rounds ("semifinals", "round-of-16", ...).
type Round struct {
	Number        int     `json:"number"`
	Matches       []Match `json:"matches"`
	KnockoutStage string  `json:"knockout_stage,omitempty"`
}

// WithMatch returns a new Round with the match appended; the receiver is
// untouched.
func (r Round) WithMatch(m Match) Round {
	matches := make([]Match, 0, len(r.Matches)+1)
	matches = append(matches, r.Matches...)
	matches = append(matches, m)
	return Round{Number: r.Number, Matches: matches, KnockoutStage: r.KnockoutStage}
}

// WithMatches returns a new Round with the given match list.
func (r Round) WithMatches(matches []Match) Round {
	return Round{Number: r.Number, Matches: matches, KnockoutStage: r.KnockoutStage}
}

// TournamentFormat distinguishes Swiss-style pools from knockout brackets.
type TournamentFormat string

const (
	FormatSwiss    TournamentFormat = "swiss"
	FormatKnockout TournamentFormat = "knockout"
)

// Tournament ties competitors, rounds and scoring together. For knockout
// tournaments, MatchesPerStage is the number of legs each pair plays per
// stage (1 = single elimination) and CurrentMatchNumber points at the leg
// currently in progress (1-indexed).
type Tournament struct {
	Competitors        []int            `json:"competitors"`
	Rounds             []Round          `json:"rounds"`
	Scoring            scoring.System   `json:"scoring"`
	Format             TournamentFormat `json:"format"`
	MatchesPerStage    int              `json:"matches_per_stage,omitempty"`
	CurrentMatchNumber int              `json:"current_match_number,omitempty"`
}

// Matches returns all matches across all rounds in round order.
func (t Tournament) Matches() []Match {
	var all []Match
	for _, r := range t.Rounds {
		all = append(all, r.Matches...)
	}
	return all
}

// NumRounds is the number of rounds in the tournament.
func (t Tournament) NumRounds() int {
	return len(t.Rounds)
}

// WithRound returns a new Tournament with the round at the given index
// replaced; everything else is shared.
func (t Tournament) WithRound(index int, round Round) Tournament {
	rounds := make([]Round, len(t.Rounds))
	copy(rounds, t.Rounds)
	rounds[index] = round
	out := t
	out.Rounds = rounds
	return out
}

// CalculateResults aggregates every round into per-competitor totals. For
// each non-bye match both sides get a MatchResult; a bye produces a single
// synthetic result for competitor1 only — the placeholder opponent never
// accrues an entry. Processing is sequential per round so results are
// bit-identical across runs.
func (t Tournament) CalculateResults() map[int]tiebreaks.CompetitorScore {
	results := make(map[int][]tiebreaks.MatchResult, len(t.Competitors))
	for _, c := range t.Competitors {
		results[c] = nil
	}

	for _, round := range t.Rounds {
		for _, match := range round.Matches {
			c1GamePts, c2GamePts := match.GamePoints(t.Scoring)
			c1MatchPts, c2MatchPts := t.Scoring.MatchPoints(c1GamePts, c2GamePts)
			c1GamesWon, c2GamesWon := match.GamesWon()

			if match.IsBye {
				results[match.Competitor1ID] = append(results[match.Competitor1ID], tiebreaks.MatchResult{
					OpponentID:         nil,
					GamePoints:         c1GamePts,
					OpponentGamePoints: 0,
					MatchPoints:        t.Scoring.ByeMatchPoints,
					GamesWon:           0,
					IsBye:              true,
				})
				continue
			}

			opp2 := match.Competitor2ID
			results[match.Competitor1ID] = append(results[match.Competitor1ID], tiebreaks.MatchResult{
				OpponentID:         &opp2,
				GamePoints:         c1GamePts,
				OpponentGamePoints: c2GamePts,
				MatchPoints:        c1MatchPts,
				GamesWon:           c1GamesWon,
			})

			if _, ok := results[match.Competitor2ID]; ok {
				opp1 := match.Competitor1ID
				results[match.Competitor2ID] = append(results[match.Competitor2ID], tiebreaks.MatchResult{
					OpponentID:         &opp1,
					GamePoints:         c2GamePts,
					OpponentGamePoints: c1GamePts,
					MatchPoints:        c2MatchPts,
					GamesWon:           c2GamesWon,
				})
			}
		}
	}

	scores := make(map[int]tiebreaks.CompetitorScore, len(results))
	for id, matchResults := range results {
		totalMatchPts := 0
		totalGamePts := 0.0
		for _, mr := range matchResults {
			totalMatchPts += mr.MatchPoints
			totalGamePts += mr.GamePoints
		}
		scores[id] = tiebreaks.CompetitorScore{
			CompetitorID: id,
			MatchPoints:  totalMatchPts,
			GamePoints:   totalGamePts,
			MatchResults: matchResults,
		}
	}
	return scores
}
