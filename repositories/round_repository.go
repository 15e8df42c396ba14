package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openclassical/league-engine/models"
)

var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrPairingNotFound = errors.New("pairing not found")
)

// RoundRepository loads and stores rounds with their pairing rows. The
// write methods take a SQLExecutor so the knockout service can run them
// inside a single transaction.
type RoundRepository interface {
	ListBySeason(ctx context.Context, seasonID int) ([]models.Round, error)
	GetByNumber(ctx context.Context, seasonID, number int) (*models.Round, error)
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, roundID int) error

	ListTeamPairings(ctx context.Context, roundID int) ([]models.TeamPairing, error)
	ListLonePairings(ctx context.Context, roundID int) ([]models.BoardPairing, error)
	GetLonePairing(ctx context.Context, roundID, pairingOrder, board int) (*models.BoardPairing, error)
	ListByes(ctx context.Context, roundID int) ([]models.PlayerBye, error)

	CreateTeamPairing(ctx context.Context, exec SQLExecutor, pairing *models.TeamPairing) error
	CreateBoardPairing(ctx context.Context, exec SQLExecutor, pairing *models.BoardPairing) error
	SetBoardResult(ctx context.Context, exec SQLExecutor, pairingID int, result string) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) ListBySeason(ctx context.Context, seasonID int) ([]models.Round, error) {
	query := `
		SELECT id, season_id, number, is_completed, published_at
		FROM rounds
		WHERE season_id = $1
		ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if err := rows.Scan(&round.ID, &round.SeasonID, &round.Number, &round.IsCompleted, &round.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) GetByNumber(ctx context.Context, seasonID, number int) (*models.Round, error) {
	query := `
		SELECT id, season_id, number, is_completed, published_at
		FROM rounds
		WHERE season_id = $1 AND number = $2`

	var round models.Round
	err := r.db.QueryRowContext(ctx, query, seasonID, number).Scan(
		&round.ID, &round.SeasonID, &round.Number, &round.IsCompleted, &round.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &round, nil
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `
		INSERT INTO rounds (season_id, number, is_completed)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query, round.SeasonID, round.Number, round.IsCompleted).Scan(&round.ID)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

func (r *postgresRoundRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, roundID int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE rounds SET is_completed = TRUE, published_at = NOW() WHERE id = $1`, roundID)
	if err != nil {
		return fmt.Errorf("failed to mark round completed: %w", err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) ListTeamPairings(ctx context.Context, roundID int) ([]models.TeamPairing, error) {
	query := `
		SELECT id, round_id, pairing_order, white_team_id, black_team_id
		FROM team_pairings
		WHERE round_id = $1
		ORDER BY pairing_order ASC`

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team pairings: %w", err)
	}
	defer rows.Close()

	pairings := make([]models.TeamPairing, 0)
	for rows.Next() {
		var tp models.TeamPairing
		if err := rows.Scan(&tp.ID, &tp.RoundID, &tp.PairingOrder, &tp.WhiteTeamID, &tp.BlackTeamID); err != nil {
			return nil, fmt.Errorf("failed to scan team pairing row: %w", err)
		}
		pairings = append(pairings, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pairings {
		boards, err := r.listBoards(ctx, pairings[i].ID)
		if err != nil {
			return nil, err
		}
		pairings[i].Boards = boards
	}
	return pairings, nil
}

func (r *postgresRoundRepository) listBoards(ctx context.Context, teamPairingID int) ([]models.BoardPairing, error) {
	query := `
		SELECT id, round_id, team_pairing_id, pairing_order, board, white_id, black_id, result, colors_reversed, game_link
		FROM board_pairings
		WHERE team_pairing_id = $1
		ORDER BY board ASC`

	rows, err := r.db.QueryContext(ctx, query, teamPairingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list board pairings: %w", err)
	}
	defer rows.Close()

	return scanBoardPairings(rows)
}

func (r *postgresRoundRepository) ListLonePairings(ctx context.Context, roundID int) ([]models.BoardPairing, error) {
	query := `
		SELECT id, round_id, team_pairing_id, pairing_order, board, white_id, black_id, result, colors_reversed, game_link
		FROM board_pairings
		WHERE round_id = $1 AND team_pairing_id IS NULL
		ORDER BY pairing_order ASC`

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lone pairings: %w", err)
	}
	defer rows.Close()

	return scanBoardPairings(rows)
}

func (r *postgresRoundRepository) GetLonePairing(ctx context.Context, roundID, pairingOrder, board int) (*models.BoardPairing, error) {
	query := `
		SELECT id, round_id, team_pairing_id, pairing_order, board, white_id, black_id, result, colors_reversed, game_link
		FROM board_pairings
		WHERE round_id = $1 AND team_pairing_id IS NULL AND pairing_order = $2 AND board = $3`

	var bp models.BoardPairing
	err := r.db.QueryRowContext(ctx, query, roundID, pairingOrder, board).Scan(
		&bp.ID,
		&bp.RoundID,
		&bp.TeamPairingID,
		&bp.PairingOrder,
		&bp.Board,
		&bp.WhiteID,
		&bp.BlackID,
		&bp.Result,
		&bp.ColorsReversed,
		&bp.GameLink,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPairingNotFound
		}
		return nil, fmt.Errorf("failed to scan board pairing: %w", err)
	}
	return &bp, nil
}

func scanBoardPairings(rows *sql.Rows) ([]models.BoardPairing, error) {
	pairings := make([]models.BoardPairing, 0)
	for rows.Next() {
		var bp models.BoardPairing
		if err := rows.Scan(
			&bp.ID,
			&bp.RoundID,
			&bp.TeamPairingID,
			&bp.PairingOrder,
			&bp.Board,
			&bp.WhiteID,
			&bp.BlackID,
			&bp.Result,
			&bp.ColorsReversed,
			&bp.GameLink,
		); err != nil {
			return nil, fmt.Errorf("failed to scan board pairing row: %w", err)
		}
		pairings = append(pairings, bp)
	}
	return pairings, rows.Err()
}

func (r *postgresRoundRepository) ListByes(ctx context.Context, roundID int) ([]models.PlayerBye, error) {
	query := `
		SELECT id, round_id, player_id, type
		FROM player_byes
		WHERE round_id = $1`

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list byes: %w", err)
	}
	defer rows.Close()

	byes := make([]models.PlayerBye, 0)
	for rows.Next() {
		var bye models.PlayerBye
		if err := rows.Scan(&bye.ID, &bye.RoundID, &bye.PlayerID, &bye.Type); err != nil {
			return nil, fmt.Errorf("failed to scan bye row: %w", err)
		}
		byes = append(byes, bye)
	}
	return byes, rows.Err()
}

func (r *postgresRoundRepository) CreateTeamPairing(ctx context.Context, exec SQLExecutor, pairing *models.TeamPairing) error {
	query := `
		INSERT INTO team_pairings (round_id, pairing_order, white_team_id, black_team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		pairing.RoundID, pairing.PairingOrder, pairing.WhiteTeamID, pairing.BlackTeamID,
	).Scan(&pairing.ID)
	if err != nil {
		return fmt.Errorf("failed to insert team pairing: %w", err)
	}
	return nil
}

func (r *postgresRoundRepository) CreateBoardPairing(ctx context.Context, exec SQLExecutor, pairing *models.BoardPairing) error {
	query := `
		INSERT INTO board_pairings (round_id, team_pairing_id, pairing_order, board, white_id, black_id, result, colors_reversed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		pairing.RoundID,
		pairing.TeamPairingID,
		pairing.PairingOrder,
		pairing.Board,
		pairing.WhiteID,
		pairing.BlackID,
		pairing.Result,
		pairing.ColorsReversed,
	).Scan(&pairing.ID)
	if err != nil {
		return fmt.Errorf("failed to insert board pairing: %w", err)
	}
	return nil
}

func (r *postgresRoundRepository) SetBoardResult(ctx context.Context, exec SQLExecutor, pairingID int, result string) error {
	res, err := exec.ExecContext(ctx,
		`UPDATE board_pairings SET result = $1 WHERE id = $2`, result, pairingID)
	if err != nil {
		return fmt.Errorf("failed to set board result: %w", err)
	}
	return checkAffectedRows(res, ErrPairingNotFound)
}
