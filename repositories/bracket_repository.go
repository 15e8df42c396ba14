package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/openclassical/league-engine/models"
)

var (
	ErrBracketNotFound = errors.New("knockout bracket not found")
	ErrBracketExists   = errors.New("season already has a knockout bracket")
)

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.KnockoutBracket) error
	GetBySeason(ctx context.Context, seasonID int) (*models.KnockoutBracket, error)
	SetManualTiebreak(ctx context.Context, exec SQLExecutor, tb *models.ManualTiebreak) error
	ListManualTiebreaks(ctx context.Context, seasonID int) ([]models.ManualTiebreak, error)
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, bracket *models.KnockoutBracket) error {
	query := `
		INSERT INTO knockout_brackets (season_id, seeding_style, games_per_match, matches_per_stage, seed_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		bracket.SeasonID,
		bracket.SeedingStyle,
		bracket.GamesPerMatch,
		bracket.MatchesPerStage,
		pq.Array(bracket.SeedOrder),
	).Scan(&bracket.ID, &bracket.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "knockout_brackets_season_id_key" {
			return ErrBracketExists
		}
		return fmt.Errorf("failed to insert bracket: %w", err)
	}
	return nil
}

func (r *postgresBracketRepository) GetBySeason(ctx context.Context, seasonID int) (*models.KnockoutBracket, error) {
	query := `
		SELECT id, season_id, seeding_style, games_per_match, matches_per_stage, seed_order, created_at
		FROM knockout_brackets
		WHERE season_id = $1`

	var bracket models.KnockoutBracket
	var seedOrder pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, seasonID).Scan(
		&bracket.ID,
		&bracket.SeasonID,
		&bracket.SeedingStyle,
		&bracket.GamesPerMatch,
		&bracket.MatchesPerStage,
		&seedOrder,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket: %w", err)
	}

	bracket.SeedOrder = make([]int, len(seedOrder))
	for i, v := range seedOrder {
		bracket.SeedOrder[i] = int(v)
	}
	return &bracket, nil
}

func (r *postgresBracketRepository) SetManualTiebreak(ctx context.Context, exec SQLExecutor, tb *models.ManualTiebreak) error {
	query := `
		INSERT INTO manual_tiebreaks (season_id, round_number, pairing_order, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season_id, round_number, pairing_order)
		DO UPDATE SET value = EXCLUDED.value
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		tb.SeasonID,
		tb.RoundNumber,
		tb.PairingOrder,
		tb.Value,
	).Scan(&tb.ID, &tb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert manual tiebreak: %w", err)
	}
	return nil
}

func (r *postgresBracketRepository) ListManualTiebreaks(ctx context.Context, seasonID int) ([]models.ManualTiebreak, error) {
	query := `
		SELECT id, season_id, round_number, pairing_order, value, created_at
		FROM manual_tiebreaks
		WHERE season_id = $1
		ORDER BY round_number, pairing_order`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query manual tiebreaks: %w", err)
	}
	defer rows.Close()

	var tiebreaks []models.ManualTiebreak
	for rows.Next() {
		var tb models.ManualTiebreak
		if err := rows.Scan(&tb.ID, &tb.SeasonID, &tb.RoundNumber, &tb.PairingOrder, &tb.Value, &tb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manual tiebreak: %w", err)
		}
		tiebreaks = append(tiebreaks, tb)
	}
	return tiebreaks, rows.Err()
}
