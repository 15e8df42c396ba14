package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

func intPtr(v int) *int { return &v }

func loneSeason(rounds ...RoundData) SeasonData {
	return SeasonData{
		League: models.League{CompetitorType: models.CompetitorLone},
		Season: models.Season{ID: 1},
		Players: []models.SeasonPlayer{
			{PlayerID: 1}, {PlayerID: 2}, {PlayerID: 3},
		},
		Rounds: rounds,
	}
}

func TestParseStoredResult(t *testing.T) {
	cases := []struct {
		raw      string
		reversed bool
		want     structure.GameResult
	}{
		{"1-0", false, structure.P1Win},
		{"0-1", false, structure.P2Win},
		{"1/2-1/2", false, structure.Draw},
		{"1-0", true, structure.P2Win},
		{"0-1", true, structure.P1Win},
		{"1/2-1/2", true, structure.Draw},
		{"1X-0F", true, structure.P2ForfeitWin},
		{"0F-1X", true, structure.P1ForfeitWin},
		{"0F-0F", true, structure.DoubleForfeit},
	}
	for _, c := range cases {
		got, ok, err := parseStoredResult(c.raw, c.reversed)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.want, got, "%s reversed=%v", c.raw, c.reversed)
	}

	_, ok, err := parseStoredResult("", false)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseStoredResult("2-0", false)
	require.Error(t, err)
}

func TestLoneSeasonSkipsIncompleteRounds(t *testing.T) {
	data := loneSeason(
		RoundData{
			Round: models.Round{Number: 1, IsCompleted: true},
			LonePairings: []models.BoardPairing{
				{WhiteID: 1, BlackID: 2, Result: "1-0"},
			},
		},
		RoundData{
			Round: models.Round{Number: 2, IsCompleted: false},
			LonePairings: []models.BoardPairing{
				{WhiteID: 1, BlackID: 3, Result: "1-0"},
			},
		},
	)

	tournament, err := SeasonTournament(data, nil)
	require.NoError(t, err)
	require.Len(t, tournament.Rounds, 1)
	assert.Equal(t, 1, tournament.Rounds[0].Number)
}

func TestLoneSeasonAutoByes(t *testing.T) {
	data := loneSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		LonePairings: []models.BoardPairing{
			{WhiteID: 1, BlackID: 2, Result: "0-1"},
		},
	})

	tournament, err := SeasonTournament(data, nil)
	require.NoError(t, err)

	results := tournament.CalculateResults()
	assert.Equal(t, 0, results[1].MatchPoints)
	assert.Equal(t, 2, results[2].MatchPoints)
	assert.Equal(t, scoring.Standard.ByeMatchPoints, results[3].MatchPoints)
}

func TestLoneSeasonEmptyResultSkipped(t *testing.T) {
	data := loneSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		LonePairings: []models.BoardPairing{
			{WhiteID: 1, BlackID: 2, Result: ""},
		},
	})

	tournament, err := SeasonTournament(data, nil)
	require.NoError(t, err)
	require.Len(t, tournament.Rounds, 1)

	// No played game survives, so all three players end up with byes.
	assert.Len(t, tournament.Rounds[0].Matches, 3)
	for _, m := range tournament.Rounds[0].Matches {
		assert.True(t, m.IsBye)
	}
}

func TestLoneSeasonBadResultHardError(t *testing.T) {
	data := loneSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		LonePairings: []models.BoardPairing{
			{WhiteID: 1, BlackID: 2, Result: "1:0"},
		},
	})

	_, err := SeasonTournament(data, nil)
	require.Error(t, err)
}

func teamSeason(rounds ...RoundData) SeasonData {
	return SeasonData{
		League: models.League{CompetitorType: models.CompetitorTeam},
		Season: models.Season{ID: 1, Boards: intPtr(2)},
		Teams:  []models.Team{{ID: 10}, {ID: 20}, {ID: 30}},
		Players: []models.SeasonPlayer{
			{PlayerID: 1, TeamID: intPtr(10)},
			{PlayerID: 2, TeamID: intPtr(10)},
			{PlayerID: 3, TeamID: intPtr(20)},
			{PlayerID: 4, TeamID: intPtr(20)},
		},
		Rounds: rounds,
	}
}

func TestTeamSeasonBoardParity(t *testing.T) {
	data := teamSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		TeamPairings: []models.TeamPairing{
			{
				WhiteTeamID: 10,
				BlackTeamID: 20,
				Boards: []models.BoardPairing{
					// Board 2 listed first; conversion sorts by board.
					{Board: 2, WhiteID: 3, BlackID: 2, Result: "1-0"},
					{Board: 1, WhiteID: 1, BlackID: 3, Result: "1-0"},
				},
			},
		},
	})

	tournament, err := SeasonTournament(data, nil)
	require.NoError(t, err)

	match := tournament.Rounds[0].Matches[0]
	require.Len(t, match.Games, 2)

	// Board 1: white team's player keeps the white seat.
	assert.Equal(t, 1, match.Games[0].Player1.PlayerID)
	assert.Equal(t, 10, match.Games[0].Player1.CompetitorID)
	assert.Equal(t, structure.P1Win, match.Games[0].Result)

	// Board 2: the black team's player had white, so seats and result are
	// swapped to keep team1's player first. Team 20's player 3 won with
	// white, which is a board loss for team 10.
	assert.Equal(t, 2, match.Games[1].Player1.PlayerID)
	assert.Equal(t, 10, match.Games[1].Player1.CompetitorID)
	assert.Equal(t, structure.P2Win, match.Games[1].Result)

	gp1, gp2 := match.GamePoints(scoring.Standard)
	assert.Equal(t, 1.0, gp1)
	assert.Equal(t, 1.0, gp2)
}

func TestTeamSeasonByeForUnpairedTeam(t *testing.T) {
	data := teamSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		TeamPairings: []models.TeamPairing{
			{
				WhiteTeamID: 10,
				BlackTeamID: 20,
				Boards: []models.BoardPairing{
					{Board: 1, WhiteID: 1, BlackID: 3, Result: "1-0"},
					{Board: 2, WhiteID: 4, BlackID: 2, Result: "1/2-1/2"},
				},
			},
		},
	})

	tournament, err := SeasonTournament(data, nil)
	require.NoError(t, err)

	results := tournament.CalculateResults()
	// Two-board bye: half the points of a sweep.
	assert.Equal(t, scoring.Standard.ByeMatchPoints, results[30].MatchPoints)
	assert.Equal(t, 1.0, results[30].GamePoints)
}

func TestTeamPairingWithoutBoardsFails(t *testing.T) {
	data := teamSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		TeamPairings: []models.TeamPairing{
			{WhiteTeamID: 10, BlackTeamID: 20},
		},
	})

	_, err := SeasonTournament(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no board rows")
}

func TestCustomScoringOverride(t *testing.T) {
	data := loneSeason(RoundData{
		Round: models.Round{Number: 1, IsCompleted: true},
		LonePairings: []models.BoardPairing{
			{WhiteID: 1, BlackID: 2, Result: "1-0"},
		},
	})

	football := scoring.Football
	tournament, err := SeasonTournament(data, &football)
	require.NoError(t, err)

	results := tournament.CalculateResults()
	assert.Equal(t, 3, results[1].MatchPoints)
}
