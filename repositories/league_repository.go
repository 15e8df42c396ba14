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
	ErrLeagueNotFound    = errors.New("league not found")
	ErrLeagueTagConflict = errors.New("league tag already in use")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	GetByTag(ctx context.Context, tag string) (*models.League, error)
	List(ctx context.Context, activeOnly bool) ([]models.League, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, tag, competitor_type, scoring_preset, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.Name,
		league.Tag,
		league.CompetitorType,
		league.ScoringPreset,
		league.Description,
		league.IsActive,
	).Scan(&league.ID, &league.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "leagues_tag_key" {
			return ErrLeagueTagConflict
		}
		return fmt.Errorf("failed to insert league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `
		SELECT id, name, tag, competitor_type, scoring_preset, description, is_active, created_at
		FROM leagues
		WHERE id = $1`
	return r.scanLeague(ctx, query, id)
}

func (r *postgresLeagueRepository) GetByTag(ctx context.Context, tag string) (*models.League, error) {
	query := `
		SELECT id, name, tag, competitor_type, scoring_preset, description, is_active, created_at
		FROM leagues
		WHERE tag = $1`
	return r.scanLeague(ctx, query, tag)
}

func (r *postgresLeagueRepository) scanLeague(ctx context.Context, query string, arg any) (*models.League, error) {
	var league models.League
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&league.ID,
		&league.Name,
		&league.Tag,
		&league.CompetitorType,
		&league.ScoringPreset,
		&league.Description,
		&league.IsActive,
		&league.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league: %w", err)
	}
	return &league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context, activeOnly bool) ([]models.League, error) {
	query := `
		SELECT id, name, tag, competitor_type, scoring_preset, description, is_active, created_at
		FROM leagues`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]models.League, 0)
	for rows.Next() {
		var league models.League
		if err := rows.Scan(
			&league.ID,
			&league.Name,
			&league.Tag,
			&league.CompetitorType,
			&league.ScoringPreset,
			&league.Description,
			&league.IsActive,
			&league.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}
