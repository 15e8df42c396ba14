package knockout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

func TestAddressingRoundTrip(t *testing.T) {
	const totalPairs = 4

	for matchNumber := 1; matchNumber <= 3; matchNumber++ {
		for original := 1; original <= totalPairs; original++ {
			order, err := PairingOrderForMatch(original, matchNumber, totalPairs)
			require.NoError(t, err)

			gotMatch, err := MatchNumberFromPairingOrder(order, totalPairs)
			require.NoError(t, err)
			assert.Equal(t, matchNumber, gotMatch)

			gotOriginal, err := OriginalPairingOrder(order, totalPairs)
			require.NoError(t, err)
			assert.Equal(t, original, gotOriginal)
		}
	}
}

func TestAddressingExamples(t *testing.T) {
	order, err := PairingOrderForMatch(2, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, order)

	matchNumber, err := MatchNumberFromPairingOrder(5, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, matchNumber)

	original, err := OriginalPairingOrder(8, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, original)
}

func TestAddressingValidation(t *testing.T) {
	_, err := PairingOrderForMatch(0, 1, 4)
	assert.Error(t, err)
	_, err = PairingOrderForMatch(5, 1, 4)
	assert.Error(t, err)
	_, err = PairingOrderForMatch(1, 0, 4)
	assert.Error(t, err)
	_, err = MatchNumberFromPairingOrder(0, 4)
	assert.Error(t, err)
	_, err = OriginalPairingOrder(1, 0)
	assert.Error(t, err)
}

func TestTotalPairsInRoundNormalizesLegs(t *testing.T) {
	round := structure.Round{Number: 1, Matches: []structure.Match{
		{Competitor1ID: 1, Competitor2ID: 2},
		{Competitor1ID: 3, Competitor2ID: 4},
		// Second legs with colors flipped.
		{Competitor1ID: 2, Competitor2ID: 1},
		{Competitor1ID: 4, Competitor2ID: 3},
	}}

	assert.Equal(t, 2, TotalPairsInRound(round))
}

func playedLeg(c1, c2 int, result structure.GameResult) structure.Match {
	m := structure.NewSingleGameMatch(c1, c2, result)
	m.GamesPerMatch = 1
	return m
}

func twoLegTournament(t *testing.T) structure.Tournament {
	t.Helper()
	tournament, err := NewTournament(seeds(4), SeedingTraditional, 1, 2, scoring.Standard)
	require.NoError(t, err)
	return tournament
}

func TestGenerateNextMatchSetBarrier(t *testing.T) {
	tournament := twoLegTournament(t)

	// Nothing played yet.
	assert.False(t, CanGenerateNextMatchSet(tournament, 1))
	_, err := GenerateNextMatchSet(tournament, 1)
	assert.ErrorIs(t, err, ErrStageIncomplete)

	// Only one of two pairs decided: the barrier holds.
	round := tournament.Rounds[0].WithMatches([]structure.Match{
		playedLeg(1, 4, structure.P1Win),
		tournament.Rounds[0].Matches[1],
	})
	partial := tournament.WithRound(0, round)
	assert.False(t, CanGenerateNextMatchSet(partial, 1))

	// Both pairs decided: next leg can be generated.
	round = tournament.Rounds[0].WithMatches([]structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.Draw).WithManualTiebreak(1),
	})
	ready := tournament.WithRound(0, round)
	assert.True(t, CanGenerateNextMatchSet(ready, 1))

	next, err := GenerateNextMatchSet(ready, 1)
	require.NoError(t, err)

	matches := next.Rounds[0].Matches
	require.Len(t, matches, 4)
	assert.Equal(t, 2, next.CurrentMatchNumber)

	// Colors flip relative to leg 1 and the new legs start empty.
	assert.Equal(t, 4, matches[2].Competitor1ID)
	assert.Equal(t, 1, matches[2].Competitor2ID)
	assert.Empty(t, matches[2].Games)
	assert.Equal(t, 3, matches[3].Competitor1ID)
	assert.Equal(t, 2, matches[3].Competitor2ID)

	// The original tournament value is untouched.
	assert.Len(t, ready.Rounds[0].Matches, 2)
	assert.Equal(t, 1, ready.CurrentMatchNumber)
}

func TestGenerateNextMatchSetRespectsLegLimit(t *testing.T) {
	tournament := twoLegTournament(t)
	round := tournament.Rounds[0].WithMatches([]structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P1Win),
		playedLeg(4, 1, structure.P1Win),
		playedLeg(3, 2, structure.P1Win),
	})
	full := tournament.WithRound(0, round)

	// Both legs exist already; a third would exceed matches per stage.
	assert.False(t, CanGenerateNextMatchSet(full, 1))
}

func TestSingleLegStageNeverGeneratesLegs(t *testing.T) {
	tournament, err := NewTournament(seeds(4), SeedingTraditional, 1, 1, scoring.Standard)
	require.NoError(t, err)

	round := tournament.Rounds[0].WithMatches([]structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P1Win),
	})
	assert.False(t, CanGenerateNextMatchSet(tournament.WithRound(0, round), 1))
}

func TestIsMultiMatchStageComplete(t *testing.T) {
	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P2Win),
		playedLeg(4, 1, structure.Draw).WithManualTiebreak(1),
		playedLeg(3, 2, structure.P2Win),
	}

	assert.True(t, IsMultiMatchStageComplete(legs, 2, 2, scoring.Standard))
	assert.False(t, IsMultiMatchStageComplete(legs[:2], 2, 2, scoring.Standard))

	// A drawn leg with no tiebreak blocks completion.
	undecided := append([]structure.Match{}, legs...)
	undecided[2] = playedLeg(4, 1, structure.Draw)
	assert.False(t, IsMultiMatchStageComplete(undecided, 2, 2, scoring.Standard))
}

func TestMultiMatchWinners(t *testing.T) {
	// Pair (1,4): 1 wins both legs. Pair (2,3): legs split 1-1, manual
	// tiebreak on the final leg favors its competitor2, which is 2.
	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P1Win),
		playedLeg(4, 1, structure.P2Win),
		playedLeg(3, 2, structure.P1Win).WithManualTiebreak(-1),
	}

	winners, err := MultiMatchWinners(legs, 2, 2, scoring.Standard)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, winners)
}

func TestMultiMatchWinnersUnresolved(t *testing.T) {
	// Legs split with no manual tiebreak anywhere.
	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P1Win),
		playedLeg(4, 1, structure.P1Win),
		playedLeg(3, 2, structure.P1Win),
	}

	_, err := MultiMatchWinners(legs, 2, 2, scoring.Standard)
	assert.ErrorIs(t, err, ErrUnresolvedMatch)
}

func TestMultiMatchWinnersIncompleteStage(t *testing.T) {
	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P1Win),
	}

	_, err := MultiMatchWinners(legs, 2, 2, scoring.Standard)
	assert.ErrorIs(t, err, ErrStageIncomplete)
}

// The manual tiebreak sign is read against the final leg's own seating,
// which is flipped from leg 1.
func TestManualTiebreakSignOnFinalLeg(t *testing.T) {
	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(4, 1, structure.P1Win).WithManualTiebreak(1),
	}

	winners, err := MultiMatchWinners(legs, 1, 2, scoring.Standard)
	require.NoError(t, err)
	// Positive favors the final leg's competitor1, which is 4.
	assert.Equal(t, []int{4}, winners)
}

func TestMultiMatchStageStatus(t *testing.T) {
	tournament := twoLegTournament(t)

	status := MultiMatchStageStatus(tournament.Rounds[0].Matches, 2, 2, scoring.Standard)
	assert.Equal(t, 1, status.CurrentMatchNumber)
	assert.Equal(t, 0, status.CompletedCurrentMatch)
	assert.False(t, status.AllCurrentComplete)
	assert.False(t, status.StageComplete)

	legs := []structure.Match{
		playedLeg(1, 4, structure.P1Win),
		playedLeg(2, 3, structure.P2Win),
		playedLeg(4, 1, structure.Draw),
		playedLeg(3, 2, structure.P1Win),
	}
	status = MultiMatchStageStatus(legs, 2, 2, scoring.Standard)
	assert.Equal(t, 2, status.CurrentMatchNumber)
	assert.Equal(t, 1, status.CompletedCurrentMatch)
	assert.False(t, status.AllCurrentComplete)
	assert.False(t, status.StageComplete)
}
