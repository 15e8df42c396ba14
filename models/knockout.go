package models

import "time"

// KnockoutBracket stores bracket parameters for a season; the match rows
// themselves reuse TeamPairing/BoardPairing keyed by round.
type KnockoutBracket struct {
	ID              int       `json:"id" db:"id"`
	SeasonID        int       `json:"season_id" db:"season_id"`
	SeedingStyle    string    `json:"seeding_style" db:"seeding_style"`
	GamesPerMatch   int       `json:"games_per_match" db:"games_per_match"`
	MatchesPerStage int       `json:"matches_per_stage" db:"matches_per_stage"`
	SeedOrder       []int     `json:"seed_order" db:"-"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ManualTiebreak is an operator ruling on a drawn knockout match. The sign
// is read relative to the seating of the leg it applies to.
type ManualTiebreak struct {
	ID           int       `json:"id" db:"id"`
	SeasonID     int       `json:"season_id" db:"season_id"`
	RoundNumber  int       `json:"round_number" db:"round_number"`
	PairingOrder int       `json:"pairing_order" db:"pairing_order"`
	Value        float64   `json:"value" db:"value"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
