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
	ErrSeasonNotFound      = errors.New("season not found")
	ErrSeasonLeagueInvalid = errors.New("season references an unknown league")
	ErrTeamNotFound        = errors.New("team not found")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	ListByLeague(ctx context.Context, leagueID int) ([]models.Season, error)
	UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) error

	ListTeams(ctx context.Context, seasonID int) ([]models.Team, error)
	ListPlayers(ctx context.Context, seasonID int) ([]models.SeasonPlayer, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (league_id, name, tag, rounds, boards, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		season.LeagueID,
		season.Name,
		season.Tag,
		season.Rounds,
		season.Boards,
		season.Status,
		season.StartDate,
	).Scan(&season.ID, &season.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "seasons_league_id_fkey" {
			return ErrSeasonLeagueInvalid
		}
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `
		SELECT
			s.id, s.league_id, s.name, s.tag, s.rounds, s.boards, s.status, s.start_date, s.created_at,
			l.id, l.name, l.tag, l.competitor_type, l.scoring_preset, l.is_active
		FROM seasons s
		JOIN leagues l ON s.league_id = l.id
		WHERE s.id = $1`

	var season models.Season
	var league models.League
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&season.ID,
		&season.LeagueID,
		&season.Name,
		&season.Tag,
		&season.Rounds,
		&season.Boards,
		&season.Status,
		&season.StartDate,
		&season.CreatedAt,
		&league.ID,
		&league.Name,
		&league.Tag,
		&league.CompetitorType,
		&league.ScoringPreset,
		&league.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season: %w", err)
	}

	season.League = &league
	return &season, nil
}

func (r *postgresSeasonRepository) ListByLeague(ctx context.Context, leagueID int) ([]models.Season, error) {
	query := `
		SELECT id, league_id, name, tag, rounds, boards, status, start_date, created_at
		FROM seasons
		WHERE league_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		var season models.Season
		if err := rows.Scan(
			&season.ID,
			&season.LeagueID,
			&season.Name,
			&season.Tag,
			&season.Rounds,
			&season.Boards,
			&season.Status,
			&season.StartDate,
			&season.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan season row: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

func (r *postgresSeasonRepository) UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE seasons SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update season status: %w", err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) ListTeams(ctx context.Context, seasonID int) ([]models.Team, error) {
	query := `
		SELECT id, season_id, name, number, is_active
		FROM teams
		WHERE season_id = $1
		ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.SeasonID, &team.Name, &team.Number, &team.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresSeasonRepository) ListPlayers(ctx context.Context, seasonID int) ([]models.SeasonPlayer, error) {
	query := `
		SELECT id, season_id, player_id, team_id, board, is_active
		FROM season_players
		WHERE season_id = $1
		ORDER BY team_id NULLS LAST, board ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season players: %w", err)
	}
	defer rows.Close()

	players := make([]models.SeasonPlayer, 0)
	for rows.Next() {
		var sp models.SeasonPlayer
		if err := rows.Scan(&sp.ID, &sp.SeasonID, &sp.PlayerID, &sp.TeamID, &sp.Board, &sp.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan season player row: %w", err)
		}
		players = append(players, sp)
	}
	return players, rows.Err()
}
