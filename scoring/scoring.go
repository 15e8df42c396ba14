// Package scoring defines how game results are converted to points and how
// match results are determined from aggregate game scores.
package scoring

// System holds the point values used to score games and matches in a
// tournament. Game points are multiples of 0.5, so float64 sums stay exact
// and match point comparisons need no epsilon.
type System struct {
	GameWinPoints  float64 `yaml:"game_win_points"`
	GameDrawPoints float64 `yaml:"game_draw_points"`
	GameLossPoints float64 `yaml:"game_loss_points"`

	MatchWinPoints  int `yaml:"match_win_points"`
	MatchDrawPoints int `yaml:"match_draw_points"`
	MatchLossPoints int `yaml:"match_loss_points"`

	ByeMatchPoints      int     `yaml:"bye_match_points"`
	ByeGamePointsFactor float64 `yaml:"bye_game_points_factor"`
}

// GamePoints returns the game points for a single result from one side's
// perspective.
func (s System) GamePoints(winner, draw bool) float64 {
	if draw {
		return s.GameDrawPoints
	}
	if winner {
		return s.GameWinPoints
	}
	return s.GameLossPoints
}

// MatchPoints converts aggregate game points into match points for both
// competitors. Strictly greater game points win the match; exact equality is
// a drawn match.
func (s System) MatchPoints(gamesFor, gamesAgainst float64) (int, int) {
	switch {
	case gamesFor > gamesAgainst:
		return s.MatchWinPoints, s.MatchLossPoints
	case gamesFor < gamesAgainst:
		return s.MatchLossPoints, s.MatchWinPoints
	default:
		return s.MatchDrawPoints, s.MatchDrawPoints
	}
}

// Standard is the default league scoring: 1/0.5/0 game points, 2-1-0 match
// points, bye worth one match point and half the board points.
var Standard = System{
	GameWinPoints:       1.0,
	GameDrawPoints:      0.5,
	GameLossPoints:      0.0,
	MatchWinPoints:      2,
	MatchDrawPoints:     1,
	MatchLossPoints:     0,
	ByeMatchPoints:      1,
	ByeGamePointsFactor: 0.5,
}

// ThreeOneZero keeps standard game scoring but awards 3-1-0 match points.
var ThreeOneZero = System{
	GameWinPoints:       1.0,
	GameDrawPoints:      0.5,
	GameLossPoints:      0.0,
	MatchWinPoints:      3,
	MatchDrawPoints:     1,
	MatchLossPoints:     0,
	ByeMatchPoints:      1,
	ByeGamePointsFactor: 0.5,
}

// Football scores games 3/1/0 as well as matches, for leagues that track
// football-style results.
var Football = System{
	GameWinPoints:       3.0,
	GameDrawPoints:      1.0,
	GameLossPoints:      0.0,
	MatchWinPoints:      3,
	MatchDrawPoints:     1,
	MatchLossPoints:     0,
	ByeMatchPoints:      1,
	ByeGamePointsFactor: 0.5,
}
