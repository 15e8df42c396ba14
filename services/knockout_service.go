package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/openclassical/league-engine/knockout"
	"github.com/openclassical/league-engine/live"
	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/repositories"
	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/structure"
)

// CreateBracketParams carries everything needed to open a knockout bracket
// for a season. SeedOrder lists competitor ids best seed first.
type CreateBracketParams struct {
	SeedOrder     []int  `json:"seed_order"`
	SeedingStyle  string `json:"seeding_style"`
	GamesPerMatch int    `json:"games_per_match"`
	LegsPerStage  int    `json:"legs_per_stage"`
}

// BracketState is the reconstructed view of a season's knockout bracket.
type BracketState struct {
	Bracket    models.KnockoutBracket `json:"bracket"`
	Tournament structure.Tournament   `json:"tournament"`
	Stage      knockout.StageStatus   `json:"stage"`
	Champion   *int                   `json:"champion,omitempty"`
}

type KnockoutService interface {
	CreateBracket(ctx context.Context, seasonID int, params CreateBracketParams) (*models.KnockoutBracket, error)
	BracketState(ctx context.Context, seasonID int) (*BracketState, error)
	RecordGameResult(ctx context.Context, seasonID, roundNumber, pairingOrder, board int, result string) error
	RecordManualTiebreak(ctx context.Context, seasonID, roundNumber, pairingOrder int, value float64) error
	GenerateNextLeg(ctx context.Context, seasonID, roundNumber int) error
	AdvanceRound(ctx context.Context, seasonID, roundNumber int) error
}

type knockoutService struct {
	db       *sql.DB
	seasons  repositories.SeasonRepository
	rounds   repositories.RoundRepository
	brackets repositories.BracketRepository
	presets  map[string]scoring.System
	hub      *live.Hub
}

func NewKnockoutService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	roundRepo repositories.RoundRepository,
	bracketRepo repositories.BracketRepository,
	presets map[string]scoring.System,
	hub *live.Hub,
) KnockoutService {
	return &knockoutService{
		db:       db,
		seasons:  seasonRepo,
		rounds:   roundRepo,
		brackets: bracketRepo,
		presets:  presets,
		hub:      hub,
	}
}

func (s *knockoutService) broadcast(seasonID int, eventType string, payload any) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.SeasonRoom(seasonID), eventType, payload)
	}
}

func (s *knockoutService) CreateBracket(ctx context.Context, seasonID int, params CreateBracketParams) (*models.KnockoutBracket, error) {
	if _, err := s.loadSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	if !knockout.ValidBracketSize(len(params.SeedOrder)) {
		return nil, fmt.Errorf("%w: got %d seeds", ErrInvalidBracketSize, len(params.SeedOrder))
	}
	if params.GamesPerMatch < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGamesPerMatch, params.GamesPerMatch)
	}
	if params.LegsPerStage < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLegsPerStage, params.LegsPerStage)
	}

	var pairings []knockout.Pairing
	var err error
	switch knockout.SeedingStyle(params.SeedingStyle) {
	case knockout.SeedingTraditional:
		pairings, err = knockout.SeedingsTraditional(params.SeedOrder)
	case knockout.SeedingAdjacent:
		pairings, err = knockout.SeedingsAdjacent(params.SeedOrder)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeedingStyle, params.SeedingStyle)
	}
	if err != nil {
		return nil, err
	}

	bracket := &models.KnockoutBracket{
		SeasonID:        seasonID,
		SeedingStyle:    params.SeedingStyle,
		GamesPerMatch:   params.GamesPerMatch,
		MatchesPerStage: params.LegsPerStage,
		SeedOrder:       params.SeedOrder,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.brackets.Create(ctx, tx, bracket); err != nil {
		if errors.Is(err, repositories.ErrBracketExists) {
			return nil, ErrBracketAlreadyExists
		}
		return nil, err
	}

	round := &models.Round{SeasonID: seasonID, Number: 1}
	if err := s.rounds.Create(ctx, tx, round); err != nil {
		return nil, err
	}
	if err := s.insertMatchRows(ctx, tx, round.ID, pairings, 1, params.GamesPerMatch, len(pairings)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bracket creation: %w", err)
	}

	s.broadcast(seasonID, live.EventBracketUpdated, bracket)
	return bracket, nil
}

// insertMatchRows writes one board row per scheduled game for each pairing
// of the given leg, at flat slots (leg-1)*totalPairs+order.
func (s *knockoutService) insertMatchRows(ctx context.Context, exec repositories.SQLExecutor, roundID int, pairings []knockout.Pairing, legNumber, gamesPerMatch, totalPairs int) error {
	for i, p := range pairings {
		slot, err := knockout.PairingOrderForMatch(i+1, legNumber, totalPairs)
		if err != nil {
			return err
		}
		for board := 1; board <= gamesPerMatch; board++ {
			row := &models.BoardPairing{
				RoundID:      roundID,
				PairingOrder: slot,
				Board:        board,
				WhiteID:      p.Competitor1ID,
				BlackID:      p.Competitor2ID,
			}
			if err := s.rounds.CreateBoardPairing(ctx, exec, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *knockoutService) BracketState(ctx context.Context, seasonID int) (*BracketState, error) {
	bracket, tournament, dbRounds, err := s.reconstruct(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	active := activeStageIndex(tournament, dbRounds)
	stageRound := tournament.Rounds[active]
	status := knockout.MultiMatchStageStatus(
		stageRound.Matches,
		knockout.TotalPairsInRound(stageRound),
		tournament.MatchesPerStage,
		tournament.Scoring,
	)

	return &BracketState{
		Bracket:    *bracket,
		Tournament: tournament,
		Stage:      status,
		Champion:   knockout.Winner(tournament),
	}, nil
}

func (s *knockoutService) RecordGameResult(ctx context.Context, seasonID, roundNumber, pairingOrder, board int, result string) error {
	if _, err := structure.ParseGameResult(result); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidGameResult, result)
	}

	round, err := s.loadRound(ctx, seasonID, roundNumber)
	if err != nil {
		return err
	}
	pairing, err := s.rounds.GetLonePairing(ctx, round.ID, pairingOrder, board)
	if err != nil {
		if errors.Is(err, repositories.ErrPairingNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.rounds.SetBoardResult(ctx, s.db, pairing.ID, result); err != nil {
		return err
	}

	s.broadcast(seasonID, live.EventBracketUpdated, map[string]any{
		"round_number":  roundNumber,
		"pairing_order": pairingOrder,
		"board":         board,
		"result":        result,
	})
	return nil
}

// RecordManualTiebreak stores an operator ruling for a drawn match. The
// value must be non-zero: the sign picks the winner relative to the seating
// of the leg it is attached to, and zero would leave the tie standing.
func (s *knockoutService) RecordManualTiebreak(ctx context.Context, seasonID, roundNumber, pairingOrder int, value float64) error {
	if value == 0 {
		return ErrInvalidTiebreakValue
	}
	round, err := s.loadRound(ctx, seasonID, roundNumber)
	if err != nil {
		return err
	}
	if _, err := s.rounds.GetLonePairing(ctx, round.ID, pairingOrder, 1); err != nil {
		if errors.Is(err, repositories.ErrPairingNotFound) {
			return ErrNotFound
		}
		return err
	}

	tb := &models.ManualTiebreak{
		SeasonID:     seasonID,
		RoundNumber:  roundNumber,
		PairingOrder: pairingOrder,
		Value:        value,
	}
	if err := s.brackets.SetManualTiebreak(ctx, s.db, tb); err != nil {
		return err
	}

	s.broadcast(seasonID, live.EventBracketUpdated, tb)
	return nil
}

// GenerateNextLeg opens the next leg of a stage once every pair has decided
// its current leg. Drawn legs count as decided; only the aggregate across
// all legs needs a manual ruling.
func (s *knockoutService) GenerateNextLeg(ctx context.Context, seasonID, roundNumber int) error {
	bracket, tournament, _, err := s.reconstruct(ctx, seasonID)
	if err != nil {
		return err
	}

	updated, err := knockout.GenerateNextMatchSet(tournament, roundNumber)
	if err != nil {
		if errors.Is(err, knockout.ErrStageIncomplete) {
			return ErrStageIncomplete
		}
		return err
	}

	round, err := s.loadRound(ctx, seasonID, roundNumber)
	if err != nil {
		return err
	}

	stageRound := updated.Rounds[roundNumber-1]
	totalPairs := knockout.TotalPairsInRound(stageRound)
	newLeg := updated.CurrentMatchNumber
	pairings := make([]knockout.Pairing, 0, totalPairs)
	for order := 1; order <= totalPairs; order++ {
		slot, err := knockout.PairingOrderForMatch(order, newLeg, totalPairs)
		if err != nil {
			return err
		}
		m := stageRound.Matches[slot-1]
		pairings = append(pairings, knockout.Pairing{Competitor1ID: m.Competitor1ID, Competitor2ID: m.Competitor2ID})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertMatchRows(ctx, tx, round.ID, pairings, newLeg, bracket.GamesPerMatch, totalPairs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leg generation: %w", err)
	}

	s.broadcast(seasonID, live.EventLegGenerated, map[string]any{
		"round_number": roundNumber,
		"leg":          newLeg,
	})
	return nil
}

// AdvanceRound closes a completed stage and seeds the next one with its
// winners. The whole step is transactional: the stage is either fully
// advanced or untouched.
func (s *knockoutService) AdvanceRound(ctx context.Context, seasonID, roundNumber int) error {
	bracket, tournament, _, err := s.reconstruct(ctx, seasonID)
	if err != nil {
		return err
	}
	if roundNumber < 1 || roundNumber > len(tournament.Rounds) {
		return ErrRoundNotFound
	}

	stageRound := tournament.Rounds[roundNumber-1]
	totalPairs := knockout.TotalPairsInRound(stageRound)
	winners, err := knockout.MultiMatchWinners(stageRound.Matches, totalPairs, tournament.MatchesPerStage, tournament.Scoring)
	if err != nil {
		switch {
		case errors.Is(err, knockout.ErrStageIncomplete):
			return ErrStageIncomplete
		case errors.Is(err, knockout.ErrUnresolvedMatch):
			return fmt.Errorf("%w: %v", ErrMatchUnresolved, err)
		}
		return err
	}

	round, err := s.loadRound(ctx, seasonID, roundNumber)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.rounds.MarkCompleted(ctx, tx, round.ID); err != nil {
		return err
	}

	// The final round produces a champion, not a next stage.
	if roundNumber < len(tournament.Rounds) {
		pairings, err := knockout.NextRoundPairings(winners)
		if err != nil {
			return err
		}
		next := &models.Round{SeasonID: seasonID, Number: roundNumber + 1}
		if err := s.rounds.Create(ctx, tx, next); err != nil {
			return err
		}
		if err := s.insertMatchRows(ctx, tx, next.ID, pairings, 1, bracket.GamesPerMatch, len(pairings)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit round advancement: %w", err)
	}

	s.broadcast(seasonID, live.EventBracketUpdated, map[string]any{
		"round_number": roundNumber,
		"winners":      winners,
	})
	return nil
}

func (s *knockoutService) loadSeason(ctx context.Context, seasonID int) (*models.Season, error) {
	season, err := s.seasons.GetByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}
	return season, nil
}

func (s *knockoutService) loadRound(ctx context.Context, seasonID, roundNumber int) (*models.Round, error) {
	round, err := s.rounds.GetByNumber(ctx, seasonID, roundNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to load round %d of season %d: %w", roundNumber, seasonID, err)
	}
	return round, nil
}

// reconstruct rebuilds the immutable knockout tournament for a season: the
// bracket skeleton from stored parameters, overlaid with every persisted
// match row and manual tiebreak.
func (s *knockoutService) reconstruct(ctx context.Context, seasonID int) (*models.KnockoutBracket, structure.Tournament, []models.Round, error) {
	season, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return nil, structure.Tournament{}, nil, err
	}

	bracket, err := s.brackets.GetBySeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return nil, structure.Tournament{}, nil, ErrSeasonNotKnockout
		}
		return nil, structure.Tournament{}, nil, err
	}

	var preset string
	if season.League != nil {
		preset = season.League.ScoringPreset
	}
	system, err := resolvePreset(s.presets, preset)
	if err != nil {
		return nil, structure.Tournament{}, nil, err
	}

	tournament, err := knockout.NewTournament(
		bracket.SeedOrder,
		knockout.SeedingStyle(bracket.SeedingStyle),
		bracket.GamesPerMatch,
		bracket.MatchesPerStage,
		system,
	)
	if err != nil {
		return nil, structure.Tournament{}, nil, err
	}

	dbRounds, err := s.rounds.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, structure.Tournament{}, nil, fmt.Errorf("failed to load rounds for season %d: %w", seasonID, err)
	}
	tiebreakRows, err := s.brackets.ListManualTiebreaks(ctx, seasonID)
	if err != nil {
		return nil, structure.Tournament{}, nil, err
	}

	for _, dbRound := range dbRounds {
		if dbRound.Number < 1 || dbRound.Number > len(tournament.Rounds) {
			return nil, structure.Tournament{}, nil, fmt.Errorf("season %d: round %d outside bracket of %d stages",
				seasonID, dbRound.Number, len(tournament.Rounds))
		}

		rows, err := s.rounds.ListLonePairings(ctx, dbRound.ID)
		if err != nil {
			return nil, structure.Tournament{}, nil, fmt.Errorf("failed to load pairings for round %d: %w", dbRound.ID, err)
		}
		skeleton := tournament.Rounds[dbRound.Number-1]
		matches, err := stageMatchesFromRows(skeleton, rows, bracket.GamesPerMatch)
		if err != nil {
			return nil, structure.Tournament{}, nil, fmt.Errorf("season %d round %d: %w", seasonID, dbRound.Number, err)
		}

		for _, tb := range tiebreakRows {
			if tb.RoundNumber == dbRound.Number && tb.PairingOrder >= 1 && tb.PairingOrder <= len(matches) {
				matches[tb.PairingOrder-1] = matches[tb.PairingOrder-1].WithManualTiebreak(tb.Value)
			}
		}

		tournament = tournament.WithRound(dbRound.Number-1, skeleton.WithMatches(matches))
	}

	active := activeStageIndex(tournament, dbRounds)
	stageRound := tournament.Rounds[active]
	if totalPairs := knockout.TotalPairsInRound(stageRound); totalPairs > 0 {
		legs := len(stageRound.Matches) / totalPairs
		if legs < 1 {
			legs = 1
		}
		tournament.CurrentMatchNumber = legs
	}

	return bracket, tournament, dbRounds, nil
}

// stageMatchesFromRows folds flat board rows into the stage's match list.
// Rows sharing a pairing order are one match; its seating comes from the
// first board and empty results stay unplayed rather than becoming games.
func stageMatchesFromRows(skeleton structure.Round, rows []models.BoardPairing, gamesPerMatch int) ([]structure.Match, error) {
	bySlot := make(map[int][]models.BoardPairing)
	maxSlot := len(skeleton.Matches)
	for _, row := range rows {
		bySlot[row.PairingOrder] = append(bySlot[row.PairingOrder], row)
		if row.PairingOrder > maxSlot {
			maxSlot = row.PairingOrder
		}
	}

	matches := make([]structure.Match, 0, maxSlot)
	for slot := 1; slot <= maxSlot; slot++ {
		slotRows := bySlot[slot]
		if len(slotRows) == 0 {
			if slot > len(skeleton.Matches) {
				return nil, fmt.Errorf("missing rows for match slot %d", slot)
			}
			matches = append(matches, skeleton.Matches[slot-1])
			continue
		}
		sort.Slice(slotRows, func(i, j int) bool { return slotRows[i].Board < slotRows[j].Board })

		match := structure.Match{
			Competitor1ID: slotRows[0].WhiteID,
			Competitor2ID: slotRows[0].BlackID,
			GamesPerMatch: gamesPerMatch,
		}
		for _, row := range slotRows {
			if row.Result == "" {
				continue
			}
			result, err := structure.ParseGameResult(row.Result)
			if err != nil {
				return nil, fmt.Errorf("match slot %d board %d: %w", slot, row.Board, err)
			}
			if row.ColorsReversed {
				result = result.Reversed()
			}
			match.Games = append(match.Games, structure.Game{
				Player1: structure.Player{PlayerID: row.WhiteID, CompetitorID: row.WhiteID},
				Player2: structure.Player{PlayerID: row.BlackID, CompetitorID: row.BlackID},
				Result:  result,
			})
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// activeStageIndex is the 0-indexed latest stage that has persisted rounds,
// or the first stage when none exist yet.
func activeStageIndex(t structure.Tournament, dbRounds []models.Round) int {
	active := 0
	for _, r := range dbRounds {
		if r.Number-1 > active && r.Number <= len(t.Rounds) {
			active = r.Number - 1
		}
	}
	return active
}
