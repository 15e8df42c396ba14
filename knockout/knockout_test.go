package knockout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

func seeds(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestValidBracketSize(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16, 32, 64, 128} {
		assert.True(t, ValidBracketSize(n), "%d", n)
	}
	for _, n := range []int{0, 1, 3, 6, 12, 24, 100} {
		assert.False(t, ValidBracketSize(n), "%d", n)
	}
}

func TestRoundsNeeded(t *testing.T) {
	cases := map[int]int{2: 1, 4: 2, 8: 3, 16: 4, 64: 6}
	for n, want := range cases {
		got, err := RoundsNeeded(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := RoundsNeeded(6)
	assert.ErrorIs(t, err, ErrInvalidBracketSize)
}

func TestStageName(t *testing.T) {
	assert.Equal(t, "finals", StageName(2))
	assert.Equal(t, "semifinals", StageName(4))
	assert.Equal(t, "quarterfinals", StageName(8))
	assert.Equal(t, "round-of-16", StageName(16))
	assert.Equal(t, "round-of-64", StageName(64))
}

func TestSeedingsAdjacent(t *testing.T) {
	pairings, err := SeedingsAdjacent(seeds(4))
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 2}, {3, 4}}, pairings)

	_, err = SeedingsAdjacent(seeds(6))
	assert.ErrorIs(t, err, ErrInvalidBracketSize)
}

func TestSeedingsTraditional(t *testing.T) {
	pairings, err := SeedingsTraditional(seeds(2))
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 2}}, pairings)

	pairings, err = SeedingsTraditional(seeds(4))
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 4}, {2, 3}}, pairings)

	pairings, err = SeedingsTraditional(seeds(8))
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 8}, {4, 5}, {3, 6}, {2, 7}}, pairings)
}

// Seeding works on arbitrary competitor ids; the seed order is positional.
func TestSeedingsTraditionalArbitraryIDs(t *testing.T) {
	pairings, err := SeedingsTraditional([]int{70, 30, 90, 10})
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{70, 10}, {30, 90}}, pairings)
}

// If favorites always win, seeds 1 and 2 must not meet before the final and
// each round's survivors must still be in bracket order. Checked for every
// bracket size up to 64, which exercises the recursive slot construction.
func TestTraditionalSeedingTopSeedsMeetLate(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32, 64} {
		pairings, err := SeedingsTraditional(seeds(n))
		require.NoError(t, err)
		require.Len(t, pairings, n/2)

		// All seeds appear exactly once and every pairing sums to n+1.
		seen := make(map[int]bool)
		for _, p := range pairings {
			assert.Equal(t, n+1, p.Competitor1ID+p.Competitor2ID, "n=%d", n)
			seen[p.Competitor1ID] = true
			seen[p.Competitor2ID] = true
		}
		assert.Len(t, seen, n)

		for len(pairings) > 1 {
			winners := make([]int, 0, len(pairings))
			for _, p := range pairings {
				if p.Competitor1ID < p.Competitor2ID {
					winners = append(winners, p.Competitor1ID)
				} else {
					winners = append(winners, p.Competitor2ID)
				}
			}
			pairings, err = NextRoundPairings(winners)
			require.NoError(t, err)

			// Seeds 1 and 2 stay in opposite halves until the final.
			if len(pairings) > 1 {
				for _, p := range pairings {
					lo, hi := p.Competitor1ID, p.Competitor2ID
					if lo > hi {
						lo, hi = hi, lo
					}
					assert.False(t, lo == 1 && hi == 2, "n=%d: 1v2 before the final", n)
				}
			}
		}
		assert.Equal(t, Pairing{1, 2}, pairings[0], "n=%d", n)
	}
}

func TestAdvancement(t *testing.T) {
	matches := []structure.Match{
		structure.NewSingleGameMatch(1, 8, structure.P1Win),
		structure.NewSingleGameMatch(4, 5, structure.P2Win),
	}

	advancing, err := Advancement(matches, scoring.Standard)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, advancing)
}

func TestAdvancementUnresolvedMatch(t *testing.T) {
	matches := []structure.Match{
		structure.NewSingleGameMatch(1, 8, structure.P1Win),
		structure.NewSingleGameMatch(4, 5, structure.Draw),
	}

	_, err := Advancement(matches, scoring.Standard)
	assert.ErrorIs(t, err, ErrUnresolvedMatch)

	// A manual tiebreak unblocks it.
	matches[1] = matches[1].WithManualTiebreak(-1)
	advancing, err := Advancement(matches, scoring.Standard)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, advancing)
}

func TestNextRoundPairingsOddCount(t *testing.T) {
	_, err := NextRoundPairings([]int{1, 2, 3})
	assert.Error(t, err)
}

func TestNewTournament(t *testing.T) {
	tournament, err := NewTournament(seeds(8), SeedingTraditional, 2, 1, scoring.Standard)
	require.NoError(t, err)

	assert.Equal(t, structure.FormatKnockout, tournament.Format)
	require.Len(t, tournament.Rounds, 3)
	assert.Equal(t, "quarterfinals", tournament.Rounds[0].KnockoutStage)
	assert.Equal(t, "semifinals", tournament.Rounds[1].KnockoutStage)
	assert.Equal(t, "finals", tournament.Rounds[2].KnockoutStage)

	require.Len(t, tournament.Rounds[0].Matches, 4)
	assert.Equal(t, 1, tournament.Rounds[0].Matches[0].Competitor1ID)
	assert.Equal(t, 8, tournament.Rounds[0].Matches[0].Competitor2ID)
	assert.Equal(t, 2, tournament.Rounds[0].Matches[0].GamesPerMatch)

	// Later rounds hold placeholders.
	require.Len(t, tournament.Rounds[1].Matches, 2)
	assert.Equal(t, structure.NoCompetitor, tournament.Rounds[1].Matches[0].Competitor1ID)

	assert.Equal(t, 1, tournament.CurrentMatchNumber)
}

func TestNewTournamentValidation(t *testing.T) {
	_, err := NewTournament(seeds(6), SeedingTraditional, 1, 1, scoring.Standard)
	assert.ErrorIs(t, err, ErrInvalidBracketSize)

	_, err = NewTournament(seeds(4), SeedingTraditional, 0, 1, scoring.Standard)
	assert.Error(t, err)

	_, err = NewTournament(seeds(4), SeedingTraditional, 1, 0, scoring.Standard)
	assert.Error(t, err)

	_, err = NewTournament(seeds(4), SeedingStyle("random"), 1, 1, scoring.Standard)
	assert.Error(t, err)
}

func TestApplyRoundWinnersAndCompletion(t *testing.T) {
	tournament, err := NewTournament(seeds(4), SeedingTraditional, 1, 1, scoring.Standard)
	require.NoError(t, err)
	assert.False(t, IsComplete(tournament))
	assert.Nil(t, Winner(tournament))

	// Semifinals: 1 beats 4, 3 beats 2.
	round := tournament.Rounds[0].WithMatches([]structure.Match{
		structure.NewSingleGameMatch(1, 4, structure.P1Win),
		structure.NewSingleGameMatch(2, 3, structure.P2Win),
	})
	tournament = tournament.WithRound(0, round)

	winners, err := Advancement(tournament.Rounds[0].Matches, scoring.Standard)
	require.NoError(t, err)

	tournament, err = ApplyRoundWinners(tournament, 1, winners)
	require.NoError(t, err)

	final := tournament.Rounds[1].Matches[0]
	assert.Equal(t, 1, final.Competitor1ID)
	assert.Equal(t, 3, final.Competitor2ID)
	assert.False(t, IsComplete(tournament))

	// Final: 3 wins.
	tournament = tournament.WithRound(1, tournament.Rounds[1].WithMatches([]structure.Match{
		structure.NewSingleGameMatch(1, 3, structure.P2Win),
	}))

	assert.True(t, IsComplete(tournament))
	champion := Winner(tournament)
	require.NotNil(t, champion)
	assert.Equal(t, 3, *champion)
}

func TestApplyRoundWinnersPastFinalIsNoop(t *testing.T) {
	tournament, err := NewTournament(seeds(2), SeedingTraditional, 1, 1, scoring.Standard)
	require.NoError(t, err)

	same, err := ApplyRoundWinners(tournament, 1, []int{1})
	require.NoError(t, err)
	assert.Equal(t, tournament, same)
}
