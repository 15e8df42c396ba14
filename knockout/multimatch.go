package knockout

import (
	"fmt"

	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

// Multi-match stages store every leg of a round in one flat match list. The
// Nth leg of a pair sits at slot (N-1)*totalPairs + originalPairingOrder.
// The three addressing helpers below are mutual inverses over that scheme;
// all orders and match numbers are 1-indexed.
//
// A strict global barrier governs leg generation: no pair may start leg N+1
// until every pair has a decided result for leg N, because stage completion
// and advancement depend on uniform progress.

// MatchNumberFromPairingOrder returns which leg a flat pairing order belongs
// to. With 4 pairs, orders 1-4 are leg 1 and orders 5-8 are leg 2.
func MatchNumberFromPairingOrder(pairingOrder, totalPairs int) (int, error) {
	if pairingOrder < 1 {
		return 0, fmt.Errorf("pairing order must be >= 1, got %d", pairingOrder)
	}
	if totalPairs < 1 {
		return 0, fmt.Errorf("total pairs must be >= 1, got %d", totalPairs)
	}
	return (pairingOrder-1)/totalPairs + 1, nil
}

// OriginalPairingOrder returns the leg-1 pairing order that a later leg's
// flat order derives from.
func OriginalPairingOrder(pairingOrder, totalPairs int) (int, error) {
	if pairingOrder < 1 {
		return 0, fmt.Errorf("pairing order must be >= 1, got %d", pairingOrder)
	}
	if totalPairs < 1 {
		return 0, fmt.Errorf("total pairs must be >= 1, got %d", totalPairs)
	}
	return (pairingOrder-1)%totalPairs + 1, nil
}

// PairingOrderForMatch returns the flat pairing order of a given leg of an
// original pairing. originalPairingOrder=2, matchNumber=2, totalPairs=4
// yields 6.
func PairingOrderForMatch(originalPairingOrder, matchNumber, totalPairs int) (int, error) {
	if totalPairs < 1 {
		return 0, fmt.Errorf("total pairs must be >= 1, got %d", totalPairs)
	}
	if originalPairingOrder < 1 || originalPairingOrder > totalPairs {
		return 0, fmt.Errorf("original pairing order must be between 1 and %d, got %d", totalPairs, originalPairingOrder)
	}
	if matchNumber < 1 {
		return 0, fmt.Errorf("match number must be >= 1, got %d", matchNumber)
	}
	return (matchNumber-1)*totalPairs + originalPairingOrder, nil
}

// TotalPairsInRound counts the unique competitor pairs in a round. Legs of
// the same pair normalize to one entry regardless of color order.
func TotalPairsInRound(round structure.Round) int {
	type pair struct{ lo, hi int }
	unique := make(map[pair]struct{})
	for _, m := range round.Matches {
		p := pair{m.Competitor1ID, m.Competitor2ID}
		if p.lo > p.hi {
			p.lo, p.hi = p.hi, p.lo
		}
		unique[p] = struct{}{}
	}
	return len(unique)
}

// currentMatchNumber derives the leg in progress from the flat match count.
func currentMatchNumber(matches []structure.Match, totalPairs int) int {
	if len(matches) == 0 || totalPairs == 0 {
		return 1
	}
	n := len(matches) / totalPairs
	if n < 1 {
		return 1
	}
	return n
}

func matchAt(matches []structure.Match, originalPairingOrder, matchNumber, totalPairs int) *structure.Match {
	order, err := PairingOrderForMatch(originalPairingOrder, matchNumber, totalPairs)
	if err != nil {
		return nil
	}
	idx := order - 1
	if idx < 0 || idx >= len(matches) {
		return nil
	}
	return &matches[idx]
}

// matchDecided reports whether a leg has games and either a winner or a
// manual tiebreak attached.
func matchDecided(m structure.Match, s scoring.System) bool {
	if len(m.Games) == 0 {
		return false
	}
	return m.WinnerID(s) != nil || m.ManualTiebreak != nil
}

func completedLegCount(matches []structure.Match, matchNumber, totalPairs int, s scoring.System) int {
	completed := 0
	for order := 1; order <= totalPairs; order++ {
		if m := matchAt(matches, order, matchNumber, totalPairs); m != nil && matchDecided(*m, s) {
			completed++
		}
	}
	return completed
}

// CanGenerateNextMatchSet reports whether the next leg of the given round
// may be generated: the stage has legs remaining and every pair has decided
// its current leg.
func CanGenerateNextMatchSet(t structure.Tournament, roundNumber int) bool {
	if roundNumber < 1 || roundNumber > len(t.Rounds) {
		return false
	}
	if t.MatchesPerStage <= 1 {
		return false
	}

	round := t.Rounds[roundNumber-1]
	totalPairs := TotalPairsInRound(round)
	if totalPairs == 0 {
		return false
	}

	current := currentMatchNumber(round.Matches, totalPairs)
	if current >= t.MatchesPerStage {
		return false
	}
	return completedLegCount(round.Matches, current, totalPairs, t.Scoring) == totalPairs
}

// GenerateNextMatchSet appends one new empty match per pair to the round,
// with colors flipped relative to each pair's leg-1 match (so parity is
// encoded by always inverting the original), and advances the tournament's
// current match number. The existing match list is never replaced.
func GenerateNextMatchSet(t structure.Tournament, roundNumber int) (structure.Tournament, error) {
	if !CanGenerateNextMatchSet(t, roundNumber) {
		return structure.Tournament{}, fmt.Errorf("round %d: cannot generate next match set: %w", roundNumber, ErrStageIncomplete)
	}

	round := t.Rounds[roundNumber-1]
	totalPairs := TotalPairsInRound(round)
	next := currentMatchNumber(round.Matches, totalPairs) + 1

	newMatches := make([]structure.Match, 0, totalPairs)
	for order := 1; order <= totalPairs; order++ {
		original := matchAt(round.Matches, order, 1, totalPairs)
		if original == nil {
			return structure.Tournament{}, fmt.Errorf("round %d: missing original match for pairing order %d", roundNumber, order)
		}
		newMatches = append(newMatches, structure.Match{
			Competitor1ID: original.Competitor2ID,
			Competitor2ID: original.Competitor1ID,
			IsBye:         original.IsBye,
			GamesPerMatch: original.GamesPerMatch,
		})
	}

	combined := make([]structure.Match, 0, len(round.Matches)+len(newMatches))
	combined = append(combined, round.Matches...)
	combined = append(combined, newMatches...)

	out := t.WithRound(roundNumber-1, round.WithMatches(combined))
	out.CurrentMatchNumber = next
	return out, nil
}

// IsMultiMatchStageComplete reports whether a stage holds its full
// totalPairs*matchesPerStage matches and every one is decided (by play or by
// manual tiebreak).
func IsMultiMatchStageComplete(matches []structure.Match, totalPairs, matchesPerStage int, s scoring.System) bool {
	if len(matches) != totalPairs*matchesPerStage {
		return false
	}
	for _, m := range matches {
		if !matchDecided(m, s) {
			return false
		}
	}
	return true
}

// MultiMatchWinners determines the advancing competitor for every pair of a
// completed multi-match stage. A pair's winner has strictly more leg wins;
// drawn legs count for neither side. Equal leg wins fall back to the manual
// tiebreak on the final leg only; failing that the pair is unresolved and
// the whole calculation errors.
func MultiMatchWinners(matches []structure.Match, totalPairs, matchesPerStage int, s scoring.System) ([]int, error) {
	if !IsMultiMatchStageComplete(matches, totalPairs, matchesPerStage, s) {
		return nil, fmt.Errorf("cannot calculate winners: %w", ErrStageIncomplete)
	}

	winners := make([]int, 0, totalPairs)
	for order := 1; order <= totalPairs; order++ {
		legs := make([]structure.Match, 0, matchesPerStage)
		for matchNumber := 1; matchNumber <= matchesPerStage; matchNumber++ {
			m := matchAt(matches, order, matchNumber, totalPairs)
			if m == nil {
				return nil, fmt.Errorf("missing match %d for pair %d", matchNumber, order)
			}
			legs = append(legs, *m)
		}

		winner := aggregateWinner(legs, s)
		if winner == nil {
			return nil, fmt.Errorf("pair %d: %w", order, ErrUnresolvedMatch)
		}
		winners = append(winners, *winner)
	}
	return winners, nil
}

// StageStatus summarizes the progress of a multi-match stage.
type StageStatus struct {
	TotalPairs            int  `json:"total_pairs"`
	MatchesPerStage       int  `json:"matches_per_stage"`
	CurrentMatchNumber    int  `json:"current_match_number"`
	CompletedCurrentMatch int  `json:"completed_current_match"`
	AllCurrentComplete    bool `json:"all_current_complete"`
	StageComplete         bool `json:"stage_complete"`
}

// MultiMatchStageStatus reports per-leg completion for a stage's flat match
// list.
func MultiMatchStageStatus(matches []structure.Match, totalPairs, matchesPerStage int, s scoring.System) StageStatus {
	if totalPairs == 0 {
		return StageStatus{
			MatchesPerStage:    matchesPerStage,
			CurrentMatchNumber: 1,
			AllCurrentComplete: true,
			StageComplete:      true,
		}
	}

	current := currentMatchNumber(matches, totalPairs)
	completed := completedLegCount(matches, current, totalPairs, s)
	return StageStatus{
		TotalPairs:            totalPairs,
		MatchesPerStage:       matchesPerStage,
		CurrentMatchNumber:    current,
		CompletedCurrentMatch: completed,
		AllCurrentComplete:    completed == totalPairs,
		StageComplete:         IsMultiMatchStageComplete(matches, totalPairs, matchesPerStage, s),
	}
}

// aggregateWinner counts leg wins for the pair across all legs. Colors flip
// between legs, so wins are attributed by competitor id, not side.
func aggregateWinner(legs []structure.Match, s scoring.System) *int {
	if len(legs) == 0 {
		return nil
	}

	c1 := legs[0].Competitor1ID
	c2 := legs[0].Competitor2ID

	c1Wins, c2Wins := 0, 0
	for _, leg := range legs {
		winner := leg.WinnerID(s)
		if winner == nil {
			continue
		}
		switch *winner {
		case c1:
			c1Wins++
		case c2:
			c2Wins++
		}
	}

	switch {
	case c1Wins > c2Wins:
		return &c1
	case c2Wins > c1Wins:
		return &c2
	}

	final := legs[len(legs)-1]
	if final.ManualTiebreak != nil {
		// Sign convention is relative to the final leg's own seating.
		switch {
		case *final.ManualTiebreak > 0:
			return &final.Competitor1ID
		case *final.ManualTiebreak < 0:
			return &final.Competitor2ID
		}
	}
	return nil
}
