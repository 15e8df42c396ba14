// Package knockout implements single-elimination bracket logic: seeding,
// stage naming, round advancement and winner determination, including stages
// where each pair plays multiple legs (multimatch.go).
package knockout

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

var (
	// ErrInvalidBracketSize signals a competitor count that is not a
	// power of two.
	ErrInvalidBracketSize = errors.New("bracket size must be a power of 2")

	// ErrUnresolvedMatch signals a tied match with no manual tiebreak;
	// the caller should prompt an operator for a resolution.
	ErrUnresolvedMatch = errors.New("match is tied and requires manual tiebreak resolution")

	// ErrStageIncomplete signals an operation attempted before every
	// pair finished the current stage or leg.
	ErrStageIncomplete = errors.New("stage is not complete")
)

// SeedingStyle selects how seeds are paired in the first round.
type SeedingStyle string

const (
	// SeedingTraditional pairs seed 1 with the lowest seed, 2 with the
	// second lowest, and so on, placed in bracket-slot order.
	SeedingTraditional SeedingStyle = "traditional"
	// SeedingAdjacent pairs consecutive seeds: 1v2, 3v4, ...
	SeedingAdjacent SeedingStyle = "adjacent"
)

// Pairing is a first-round or next-round pairing in bracket-slot order.
type Pairing struct {
	Competitor1ID int
	Competitor2ID int
}

// ValidBracketSize reports whether n competitors can fill a knockout
// bracket (n > 1 and a power of two).
func ValidBracketSize(n int) bool {
	return n > 1 && n&(n-1) == 0
}

// RoundsNeeded returns the number of rounds a bracket of n competitors
// plays.
func RoundsNeeded(n int) (int, error) {
	if !ValidBracketSize(n) {
		return 0, fmt.Errorf("competitor count %d: %w", n, ErrInvalidBracketSize)
	}
	return bits.TrailingZeros(uint(n)), nil
}

// StageName returns the conventional label for a knockout stage given the
// competitors remaining at its start.
func StageName(remaining int) string {
	switch remaining {
	case 2:
		return "finals"
	case 4:
		return "semifinals"
	case 8:
		return "quarterfinals"
	}
	return fmt.Sprintf("round-of-%d", remaining)
}

// SeedingsAdjacent pairs consecutive seeds: (1,2), (3,4), ...
// The input is competitor ids in seeding order, strongest first.
func SeedingsAdjacent(seedOrder []int) ([]Pairing, error) {
	if !ValidBracketSize(len(seedOrder)) {
		return nil, fmt.Errorf("competitor count %d: %w", len(seedOrder), ErrInvalidBracketSize)
	}
	pairings := make([]Pairing, 0, len(seedOrder)/2)
	for i := 0; i < len(seedOrder); i += 2 {
		pairings = append(pairings, Pairing{seedOrder[i], seedOrder[i+1]})
	}
	return pairings, nil
}

// SeedingsTraditional pairs seed i with seed n+1-i and arranges the pairings
// in bracket-slot order, so the top two seeds can only meet in the final.
// For 8 competitors the result is (1,8), (4,5), (3,6), (2,7).
func SeedingsTraditional(seedOrder []int) ([]Pairing, error) {
	if !ValidBracketSize(len(seedOrder)) {
		return nil, fmt.Errorf("competitor count %d: %w", len(seedOrder), ErrInvalidBracketSize)
	}

	n := len(seedOrder)
	slots := bracketSlotOrder(n / 2)

	pairings := make([]Pairing, 0, n/2)
	for _, seed := range slots {
		pairings = append(pairings, Pairing{
			Competitor1ID: seedOrder[seed-1],
			Competitor2ID: seedOrder[n-seed],
		})
	}
	return pairings, nil
}

// bracketSlotOrder returns the order in which pairings (identified by their
// top seed, 1..totalPairs) occupy bracket slots. The tables for bracket
// sizes 2, 4, 8 and 16 encode the canonical single-elimination topology;
// larger brackets are built by doubling: each slot q expands to the two
// pairings q and 2k+1-q that feed it, mirrored on every second slot so the
// halves stay balanced.
func bracketSlotOrder(totalPairs int) []int {
	switch totalPairs {
	case 1:
		return []int{1}
	case 2:
		return []int{1, 2}
	case 4:
		return []int{1, 4, 3, 2}
	case 8:
		return []int{1, 8, 5, 4, 3, 6, 7, 2}
	}

	half := bracketSlotOrder(totalPairs / 2)
	mirror := totalPairs + 1
	order := make([]int, 0, totalPairs)
	for i, q := range half {
		if i%2 == 0 {
			order = append(order, q, mirror-q)
		} else {
			order = append(order, mirror-q, q)
		}
	}
	return order
}

// Advancement maps each match of a completed knockout round to its winner.
// Any unresolved match aborts the whole round: advancement cannot proceed
// until every match has a determined winner.
func Advancement(matches []structure.Match, s scoring.System) ([]int, error) {
	advancing := make([]int, 0, len(matches))
	for _, m := range matches {
		winner := m.WinnerID(s)
		if winner == nil {
			return nil, fmt.Errorf("match between %d and %d: %w",
				m.Competitor1ID, m.Competitor2ID, ErrUnresolvedMatch)
		}
		advancing = append(advancing, *winner)
	}
	return advancing, nil
}

// NextRoundPairings pairs advancing competitors positionally (0v1, 2v3, ...).
// The input must preserve the bracket-slot order established at seeding;
// reordering it breaks the draw.
func NextRoundPairings(advancing []int) ([]Pairing, error) {
	if len(advancing)%2 != 0 {
		return nil, fmt.Errorf("cannot pair %d advancing competitors (must be even)", len(advancing))
	}
	pairings := make([]Pairing, 0, len(advancing)/2)
	for i := 0; i < len(advancing); i += 2 {
		pairings = append(pairings, Pairing{advancing[i], advancing[i+1]})
	}
	return pairings, nil
}

// NewTournament builds the full knockout structure for the given seeds:
// round 1 paired by style, later rounds as placeholder matches filled in by
// ApplyRoundWinners as stages finish.
func NewTournament(seedOrder []int, style SeedingStyle, gamesPerMatch, matchesPerStage int, s scoring.System) (structure.Tournament, error) {
	if gamesPerMatch < 1 {
		return structure.Tournament{}, fmt.Errorf("games per match must be >= 1, got %d", gamesPerMatch)
	}
	if matchesPerStage < 1 {
		return structure.Tournament{}, fmt.Errorf("matches per stage must be >= 1, got %d", matchesPerStage)
	}

	totalRounds, err := RoundsNeeded(len(seedOrder))
	if err != nil {
		return structure.Tournament{}, err
	}

	var firstRound []Pairing
	switch style {
	case SeedingTraditional:
		firstRound, err = SeedingsTraditional(seedOrder)
	case SeedingAdjacent:
		firstRound, err = SeedingsAdjacent(seedOrder)
	default:
		return structure.Tournament{}, fmt.Errorf("unknown seeding style %q", style)
	}
	if err != nil {
		return structure.Tournament{}, err
	}

	rounds := make([]structure.Round, 0, totalRounds)
	remaining := len(seedOrder)

	for roundNum := 1; roundNum <= totalRounds; roundNum++ {
		matches := make([]structure.Match, 0, remaining/2)
		if roundNum == 1 {
			for _, p := range firstRound {
				matches = append(matches, structure.Match{
					Competitor1ID: p.Competitor1ID,
					Competitor2ID: p.Competitor2ID,
					GamesPerMatch: gamesPerMatch,
				})
			}
		} else {
			for i := 0; i < remaining/2; i++ {
				matches = append(matches, structure.Match{
					Competitor1ID: structure.NoCompetitor,
					Competitor2ID: structure.NoCompetitor,
					GamesPerMatch: gamesPerMatch,
				})
			}
		}
		rounds = append(rounds, structure.Round{
			Number:        roundNum,
			Matches:       matches,
			KnockoutStage: StageName(remaining),
		})
		remaining /= 2
	}

	return structure.Tournament{
		Competitors:        seedOrder,
		Rounds:             rounds,
		Scoring:            s,
		Format:             structure.FormatKnockout,
		MatchesPerStage:    matchesPerStage,
		CurrentMatchNumber: 1,
	}, nil
}

// ApplyRoundWinners fills the round after roundNumber with pairings of the
// given winners, preserving bracket-slot order. Applying winners for the
// final round returns the tournament unchanged.
func ApplyRoundWinners(t structure.Tournament, roundNumber int, winners []int) (structure.Tournament, error) {
	if roundNumber >= len(t.Rounds) {
		return t, nil
	}

	next := t.Rounds[roundNumber] // 0-indexed: the round after roundNumber
	pairings, err := NextRoundPairings(winners)
	if err != nil {
		return structure.Tournament{}, err
	}
	if len(pairings) > len(next.Matches) {
		return structure.Tournament{}, fmt.Errorf("round %d has %d match slots for %d pairings",
			next.Number, len(next.Matches), len(pairings))
	}

	updated := make([]structure.Match, len(next.Matches))
	copy(updated, next.Matches)
	for i, p := range pairings {
		old := updated[i]
		updated[i] = structure.Match{
			Competitor1ID:  p.Competitor1ID,
			Competitor2ID:  p.Competitor2ID,
			Games:          old.Games,
			GamesPerMatch:  old.GamesPerMatch,
			ManualTiebreak: old.ManualTiebreak,
		}
	}

	return t.WithRound(roundNumber, next.WithMatches(updated)), nil
}

// IsComplete reports whether a knockout tournament has produced a champion:
// the final round holds exactly one match with at least one game and a
// determined winner.
func IsComplete(t structure.Tournament) bool {
	if t.Format != structure.FormatKnockout || len(t.Rounds) == 0 {
		return false
	}
	final := t.Rounds[len(t.Rounds)-1]
	if len(final.Matches) != 1 {
		return false
	}
	match := final.Matches[0]
	return len(match.Games) > 0 && match.WinnerID(t.Scoring) != nil
}

// Winner returns the champion's id, or nil if the tournament is incomplete.
func Winner(t structure.Tournament) *int {
	if !IsComplete(t) {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1].Matches[0].WinnerID(t.Scoring)
}
