package models

import "time"

type Round struct {
	ID          int        `json:"id" db:"id"`
	SeasonID    int        `json:"season_id" db:"season_id"`
	Number      int        `json:"number" db:"number"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
}

// TeamPairing is a scheduled team match within a round. Points are redundant
// with the board rows and recomputed, never trusted.
type TeamPairing struct {
	ID           int  `json:"id" db:"id"`
	RoundID      int  `json:"round_id" db:"round_id"`
	PairingOrder int  `json:"pairing_order" db:"pairing_order"`
	WhiteTeamID  int  `json:"white_team_id" db:"white_team_id"`
	BlackTeamID  int  `json:"black_team_id" db:"black_team_id"`
	Boards       []BoardPairing `json:"boards,omitempty" db:"-"`
}

// BoardPairing is a single game, either one board of a team pairing or a
// standalone pairing in a lone league (team_pairing_id null, board 1).
type BoardPairing struct {
	ID             int     `json:"id" db:"id"`
	RoundID        int     `json:"round_id" db:"round_id"`
	TeamPairingID  *int    `json:"team_pairing_id,omitempty" db:"team_pairing_id"`
	PairingOrder   int     `json:"pairing_order" db:"pairing_order"`
	Board          int     `json:"board" db:"board"`
	WhiteID        int     `json:"white_id" db:"white_id"`
	BlackID        int     `json:"black_id" db:"black_id"`
	Result         string  `json:"result" db:"result"`
	ColorsReversed bool    `json:"colors_reversed" db:"colors_reversed"`
	GameLink       *string `json:"game_link,omitempty" db:"game_link"`
}

type ByeType string

const (
	ByeFullPoint ByeType = "full-point"
	ByeHalfPoint ByeType = "half-point"
	ByeZeroPoint ByeType = "zero-point"
)

// PlayerBye is a lone-league bye row for a round.
type PlayerBye struct {
	ID       int     `json:"id" db:"id"`
	RoundID  int     `json:"round_id" db:"round_id"`
	PlayerID int     `json:"player_id" db:"player_id"`
	Type     ByeType `json:"type" db:"type"`
}
