package tiebreaks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opp(id int) *int { return &id }

// Three players: 1 beat 2, drew 3; 2 beat 3. Final match points (2-1-0):
// player 1 = 3, player 2 = 2, player 3 = 1.
func roundRobinScores() map[int]CompetitorScore {
	scores := map[int]CompetitorScore{
		1: {
			CompetitorID: 1, MatchPoints: 3, GamePoints: 1.5,
			MatchResults: []MatchResult{
				{OpponentID: opp(2), GamePoints: 1, OpponentGamePoints: 0, MatchPoints: 2, GamesWon: 1},
				{OpponentID: opp(3), GamePoints: 0.5, OpponentGamePoints: 0.5, MatchPoints: 1},
			},
		},
		2: {
			CompetitorID: 2, MatchPoints: 2, GamePoints: 1,
			MatchResults: []MatchResult{
				{OpponentID: opp(1), GamePoints: 0, OpponentGamePoints: 1, MatchPoints: 0},
				{OpponentID: opp(3), GamePoints: 1, OpponentGamePoints: 0, MatchPoints: 2, GamesWon: 1},
			},
		},
		3: {
			CompetitorID: 3, MatchPoints: 1, GamePoints: 0.5,
			MatchResults: []MatchResult{
				{OpponentID: opp(1), GamePoints: 0.5, OpponentGamePoints: 0.5, MatchPoints: 1},
				{OpponentID: opp(2), GamePoints: 0, OpponentGamePoints: 1, MatchPoints: 0},
			},
		},
	}
	return scores
}

func TestSonnebornBerger(t *testing.T) {
	scores := roundRobinScores()

	// Player 1: beat 2 (2 pts) and drew 3 (1 pt): 2 + 0.5 = 2.5.
	assert.Equal(t, 2.5, SonnebornBerger(scores[1], scores))
	// Player 2: lost to 1, beat 3 (1 pt): 1.0.
	assert.Equal(t, 1.0, SonnebornBerger(scores[2], scores))
	// Player 3: drew 1 (3 pts), lost to 2: 1.5.
	assert.Equal(t, 1.5, SonnebornBerger(scores[3], scores))
}

func TestSonnebornBergerExcludesByes(t *testing.T) {
	scores := roundRobinScores()
	withBye := scores[1]
	withBye.MatchResults = append(withBye.MatchResults, MatchResult{
		IsBye: true, MatchPoints: 1, GamePoints: 1,
	})
	withBye.MatchPoints += 1
	scores[1] = withBye

	assert.Equal(t, 2.5, SonnebornBerger(scores[1], scores))
}

// Sonneborn-Berger weights by game outcome, not match points earned, so the
// values stay meaningful under 3-1-0 match scoring.
func TestSonnebornBergerUnderThreeOneZero(t *testing.T) {
	scores := map[int]CompetitorScore{
		1: {
			CompetitorID: 1, MatchPoints: 4, GamePoints: 1.5,
			MatchResults: []MatchResult{
				{OpponentID: opp(2), GamePoints: 1, OpponentGamePoints: 0, MatchPoints: 3, GamesWon: 1},
				{OpponentID: opp(3), GamePoints: 0.5, OpponentGamePoints: 0.5, MatchPoints: 1},
			},
		},
		2: {CompetitorID: 2, MatchPoints: 3},
		3: {CompetitorID: 3, MatchPoints: 1},
	}

	// Full credit for the win over 2, half credit for the draw with 3.
	assert.Equal(t, 3.5, SonnebornBerger(scores[1], scores))
}

func TestBuchholz(t *testing.T) {
	scores := roundRobinScores()

	// Player 1's opponents hold 2 + 1 = 3 match points.
	assert.Equal(t, 3.0, Buchholz(scores[1], scores))
	assert.Equal(t, 4.0, Buchholz(scores[2], scores))
	assert.Equal(t, 5.0, Buchholz(scores[3], scores))
}

func TestBuchholzVirtualByeOpponent(t *testing.T) {
	score := CompetitorScore{
		CompetitorID: 1, MatchPoints: 5,
		MatchResults: []MatchResult{
			{OpponentID: opp(2), MatchPoints: 2},
			{OpponentID: opp(3), MatchPoints: 2},
			{IsBye: true, MatchPoints: 1},
		},
	}
	all := map[int]CompetitorScore{
		1: score,
		2: {CompetitorID: 2, MatchPoints: 4},
		3: {CompetitorID: 3, MatchPoints: 2},
	}

	// Real opponents 4 + 2, plus a virtual opponent worth the
	// competitor's own 5 final match points.
	assert.Equal(t, 11.0, Buchholz(score, all))
}

func TestHeadToHead(t *testing.T) {
	scores := roundRobinScores()
	tied := map[int]struct{}{1: {}, 2: {}}

	assert.Equal(t, 2, HeadToHead(scores[1], tied, scores))
	assert.Equal(t, 0, HeadToHead(scores[2], tied, scores))

	// No games against the tied set scores zero.
	lone := map[int]struct{}{99: {}}
	assert.Equal(t, 0, HeadToHead(scores[1], lone, scores))
}

func TestGamesWon(t *testing.T) {
	scores := roundRobinScores()
	assert.Equal(t, 1, GamesWon(scores[1]))
	assert.Equal(t, 1, GamesWon(scores[2]))
	assert.Equal(t, 0, GamesWon(scores[3]))
}

func TestCalculateAll(t *testing.T) {
	scores := roundRobinScores()
	order := []string{TiebreakSonnebornBerger, TiebreakBuchholz, TiebreakGamesWon, TiebreakGamePoints, TiebreakHeadToHead}

	values := CalculateAll(scores, order)
	assert.Equal(t, 2.5, values[1][TiebreakSonnebornBerger])
	assert.Equal(t, 3.0, values[1][TiebreakBuchholz])
	assert.Equal(t, 1.0, values[1][TiebreakGamesWon])
	assert.Equal(t, 1.5, values[1][TiebreakGamePoints])

	// Nobody shares (match points, game points) here, so each tied group
	// is a singleton and head-to-head is zero.
	for id := range scores {
		assert.Equal(t, 0.0, values[id][TiebreakHeadToHead])
	}
}

// Running the calculation twice over the same inputs returns equal values.
func TestCalculateAllDeterministic(t *testing.T) {
	scores := roundRobinScores()
	order := []string{TiebreakSonnebornBerger, TiebreakBuchholz}

	first := CalculateAll(scores, order)
	second := CalculateAll(scores, order)
	assert.Equal(t, first, second)
}

func TestEmptyHistoryScoresZero(t *testing.T) {
	empty := CompetitorScore{CompetitorID: 9}
	all := map[int]CompetitorScore{9: empty}

	assert.Equal(t, 0.0, SonnebornBerger(empty, all))
	assert.Equal(t, 0.0, Buchholz(empty, all))
	assert.Equal(t, 0, GamesWon(empty))
}
