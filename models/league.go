package models

import "time"

// CompetitorType distinguishes team leagues from individual ("lone") leagues.
type CompetitorType string

const (
	CompetitorTeam CompetitorType = "team"
	CompetitorLone CompetitorType = "lone"
)

type League struct {
	ID             int            `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Tag            string         `json:"tag" db:"tag"`
	CompetitorType CompetitorType `json:"competitor_type" db:"competitor_type"`
	ScoringPreset  string         `json:"scoring_preset" db:"scoring_preset"`
	Description    *string        `json:"description,omitempty" db:"description"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}
