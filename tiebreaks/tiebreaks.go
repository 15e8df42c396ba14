// Package tiebreaks computes secondary ranking metrics used to separate
// competitors level on match points. All functions are pure: they read a
// competitor's match history and the final score table and return a value,
// never an error — a competitor with no matches scores 0 on every tiebreak.
package tiebreaks

// MatchResult records one match from a single competitor's perspective.
type MatchResult struct {
	OpponentID         *int    `json:"opponent_id"` // nil for byes
	GamePoints         float64 `json:"game_points"`
	OpponentGamePoints float64 `json:"opponent_game_points"`
	MatchPoints        int     `json:"match_points"`
	GamesWon           int     `json:"games_won"`
	IsBye              bool    `json:"is_bye"`
}

// CompetitorScore holds a competitor's totals and full match history.
type CompetitorScore struct {
	CompetitorID int           `json:"competitor_id"`
	MatchPoints  int           `json:"match_points"`
	GamePoints   float64       `json:"game_points"`
	MatchResults []MatchResult `json:"match_results"`
}

// Tiebreak names accepted by CalculateAll.
const (
	TiebreakSonnebornBerger = "sonneborn_berger"
	TiebreakBuchholz        = "buchholz"
	TiebreakHeadToHead      = "head_to_head"
	TiebreakGamesWon        = "games_won"
	TiebreakGamePoints      = "game_points"
)

// SonnebornBerger sums opponent match points weighted by the outcome of each
// match: full weight for a won match, half for a drawn one, nothing for a
// loss. The outcome is read from the game points inside the match result so
// the weighting stays correct under 3-1-0 match scoring. Byes are excluded.
func SonnebornBerger(score CompetitorScore, all map[int]CompetitorScore) float64 {
	sb := 0.0
	for _, r := range score.MatchResults {
		if r.IsBye || r.OpponentID == nil {
			continue
		}
		opp, ok := all[*r.OpponentID]
		if !ok {
			continue
		}
		switch {
		case r.GamePoints > r.OpponentGamePoints:
			sb += float64(opp.MatchPoints)
		case r.GamePoints == r.OpponentGamePoints:
			sb += float64(opp.MatchPoints) / 2.0
		}
	}
	return sb
}

// Buchholz sums all opponents' final match points. A bye contributes a
// virtual opponent whose match points equal the competitor's own final match
// points (FIDE 16.4), so receiving a bye does not depress the score.
func Buchholz(score CompetitorScore, all map[int]CompetitorScore) float64 {
	bh := 0.0
	for _, r := range score.MatchResults {
		if r.IsBye || r.OpponentID == nil {
			bh += float64(score.MatchPoints)
			continue
		}
		opp, ok := all[*r.OpponentID]
		if !ok {
			continue
		}
		bh += float64(opp.MatchPoints)
	}
	return bh
}

// HeadToHead sums the match points this competitor earned against the given
// set of tied competitors. Byes and matches against competitors outside the
// set are ignored; a competitor that played none of the set scores 0.
func HeadToHead(score CompetitorScore, tied map[int]struct{}, all map[int]CompetitorScore) int {
	h2h := 0
	for _, r := range score.MatchResults {
		if r.IsBye || r.OpponentID == nil {
			continue
		}
		if _, ok := tied[*r.OpponentID]; ok {
			h2h += r.MatchPoints
		}
	}
	return h2h
}

// GamesWon totals individual games won across all matches. For team
// tournaments this counts boards won; byes contribute nothing.
func GamesWon(score CompetitorScore) int {
	total := 0
	for _, r := range score.MatchResults {
		total += r.GamesWon
	}
	return total
}

// CalculateAll computes the named tiebreaks for every competitor. For
// head-to-head, competitors are grouped by (match points, game points); each
// competitor's tied set is the group it belongs to.
func CalculateAll(scores map[int]CompetitorScore, order []string) map[int]map[string]float64 {
	type groupKey struct {
		matchPoints int
		gamePoints  float64
	}

	tiedGroups := make(map[groupKey]map[int]struct{})
	for id, score := range scores {
		key := groupKey{score.MatchPoints, score.GamePoints}
		if tiedGroups[key] == nil {
			tiedGroups[key] = make(map[int]struct{})
		}
		tiedGroups[key][id] = struct{}{}
	}

	out := make(map[int]map[string]float64, len(scores))
	for id, score := range scores {
		values := make(map[string]float64, len(order))
		for _, name := range order {
			switch name {
			case TiebreakSonnebornBerger:
				values[name] = SonnebornBerger(score, scores)
			case TiebreakBuchholz:
				values[name] = Buchholz(score, scores)
			case TiebreakHeadToHead:
				tied := tiedGroups[groupKey{score.MatchPoints, score.GamePoints}]
				values[name] = float64(HeadToHead(score, tied, scores))
			case TiebreakGamesWon:
				values[name] = float64(GamesWon(score))
			case TiebreakGamePoints:
				values[name] = score.GamePoints
			}
		}
		out[id] = values
	}
	return out
}
