package models

import "time"

type SeasonStatus string

const (
	SeasonStatusRegistration SeasonStatus = "registration"
	SeasonStatusActive       SeasonStatus = "active"
	SeasonStatusCompleted    SeasonStatus = "completed"
)

type Season struct {
	ID        int          `json:"id" db:"id"`
	LeagueID  int          `json:"league_id" db:"league_id"`
	Name      string       `json:"name" db:"name"`
	Tag       string       `json:"tag" db:"tag"`
	Rounds    int          `json:"rounds" db:"rounds"`
	Boards    *int         `json:"boards,omitempty" db:"boards"`
	Status    SeasonStatus `json:"status" db:"status"`
	StartDate *time.Time   `json:"start_date,omitempty" db:"start_date"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`

	// Loaded on demand, never mapped directly.
	League *League `json:"league,omitempty" db:"-"`
}

type Team struct {
	ID       int    `json:"id" db:"id"`
	SeasonID int    `json:"season_id" db:"season_id"`
	Name     string `json:"name" db:"name"`
	Number   int    `json:"number" db:"number"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

type Player struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Rating int    `json:"rating" db:"rating"`
}

// SeasonPlayer links a player to a season, with the team board slot for team
// leagues.
type SeasonPlayer struct {
	ID       int  `json:"id" db:"id"`
	SeasonID int  `json:"season_id" db:"season_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	TeamID   *int `json:"team_id,omitempty" db:"team_id"`
	Board    *int `json:"board,omitempty" db:"board"`
	IsActive bool `json:"is_active" db:"is_active"`
}
