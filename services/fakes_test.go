package services

import (
	"context"

	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/repositories"
)

// In-memory repositories backing the service tests.

type fakeLeagueRepo struct {
	leagues []models.League
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	r.leagues = append(r.leagues, *league)
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	for i := range r.leagues {
		if r.leagues[i].ID == id {
			league := r.leagues[i]
			return &league, nil
		}
	}
	return nil, repositories.ErrLeagueNotFound
}

func (r *fakeLeagueRepo) GetByTag(_ context.Context, tag string) (*models.League, error) {
	for i := range r.leagues {
		if r.leagues[i].Tag == tag {
			league := r.leagues[i]
			return &league, nil
		}
	}
	return nil, repositories.ErrLeagueNotFound
}

func (r *fakeLeagueRepo) List(_ context.Context, activeOnly bool) ([]models.League, error) {
	out := make([]models.League, 0, len(r.leagues))
	for _, league := range r.leagues {
		if activeOnly && !league.IsActive {
			continue
		}
		out = append(out, league)
	}
	return out, nil
}

type fakeSeasonRepo struct {
	seasons []models.Season
	teams   map[int][]models.Team
	players map[int][]models.SeasonPlayer
}

func (r *fakeSeasonRepo) Create(_ context.Context, season *models.Season) error {
	r.seasons = append(r.seasons, *season)
	return nil
}

func (r *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	for i := range r.seasons {
		if r.seasons[i].ID == id {
			season := r.seasons[i]
			return &season, nil
		}
	}
	return nil, repositories.ErrSeasonNotFound
}

func (r *fakeSeasonRepo) ListByLeague(_ context.Context, leagueID int) ([]models.Season, error) {
	var out []models.Season
	for _, season := range r.seasons {
		if season.LeagueID == leagueID {
			out = append(out, season)
		}
	}
	return out, nil
}

func (r *fakeSeasonRepo) UpdateStatus(_ context.Context, id int, status models.SeasonStatus) error {
	for i := range r.seasons {
		if r.seasons[i].ID == id {
			r.seasons[i].Status = status
			return nil
		}
	}
	return repositories.ErrSeasonNotFound
}

func (r *fakeSeasonRepo) ListTeams(_ context.Context, seasonID int) ([]models.Team, error) {
	return r.teams[seasonID], nil
}

func (r *fakeSeasonRepo) ListPlayers(_ context.Context, seasonID int) ([]models.SeasonPlayer, error) {
	return r.players[seasonID], nil
}

type fakeRoundRepo struct {
	rounds       []models.Round
	teamPairings map[int][]models.TeamPairing
	lonePairings map[int][]models.BoardPairing
	byes         map[int][]models.PlayerBye
}

func (r *fakeRoundRepo) ListBySeason(_ context.Context, seasonID int) ([]models.Round, error) {
	var out []models.Round
	for _, round := range r.rounds {
		if round.SeasonID == seasonID {
			out = append(out, round)
		}
	}
	return out, nil
}

func (r *fakeRoundRepo) GetByNumber(_ context.Context, seasonID, number int) (*models.Round, error) {
	for i := range r.rounds {
		if r.rounds[i].SeasonID == seasonID && r.rounds[i].Number == number {
			round := r.rounds[i]
			return &round, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (r *fakeRoundRepo) Create(_ context.Context, _ repositories.SQLExecutor, round *models.Round) error {
	round.ID = len(r.rounds) + 1
	r.rounds = append(r.rounds, *round)
	return nil
}

func (r *fakeRoundRepo) MarkCompleted(_ context.Context, _ repositories.SQLExecutor, roundID int) error {
	for i := range r.rounds {
		if r.rounds[i].ID == roundID {
			r.rounds[i].IsCompleted = true
			return nil
		}
	}
	return repositories.ErrRoundNotFound
}

func (r *fakeRoundRepo) ListTeamPairings(_ context.Context, roundID int) ([]models.TeamPairing, error) {
	return r.teamPairings[roundID], nil
}

func (r *fakeRoundRepo) ListLonePairings(_ context.Context, roundID int) ([]models.BoardPairing, error) {
	return r.lonePairings[roundID], nil
}

func (r *fakeRoundRepo) GetLonePairing(_ context.Context, roundID, pairingOrder, board int) (*models.BoardPairing, error) {
	for _, bp := range r.lonePairings[roundID] {
		if bp.PairingOrder == pairingOrder && bp.Board == board {
			pairing := bp
			return &pairing, nil
		}
	}
	return nil, repositories.ErrPairingNotFound
}

func (r *fakeRoundRepo) ListByes(_ context.Context, roundID int) ([]models.PlayerBye, error) {
	return r.byes[roundID], nil
}

func (r *fakeRoundRepo) CreateTeamPairing(_ context.Context, _ repositories.SQLExecutor, pairing *models.TeamPairing) error {
	if r.teamPairings == nil {
		r.teamPairings = make(map[int][]models.TeamPairing)
	}
	r.teamPairings[pairing.RoundID] = append(r.teamPairings[pairing.RoundID], *pairing)
	return nil
}

func (r *fakeRoundRepo) CreateBoardPairing(_ context.Context, _ repositories.SQLExecutor, pairing *models.BoardPairing) error {
	if r.lonePairings == nil {
		r.lonePairings = make(map[int][]models.BoardPairing)
	}
	r.lonePairings[pairing.RoundID] = append(r.lonePairings[pairing.RoundID], *pairing)
	return nil
}

func (r *fakeRoundRepo) SetBoardResult(_ context.Context, _ repositories.SQLExecutor, pairingID int, result string) error {
	for roundID := range r.lonePairings {
		for i := range r.lonePairings[roundID] {
			if r.lonePairings[roundID][i].ID == pairingID {
				r.lonePairings[roundID][i].Result = result
				return nil
			}
		}
	}
	return repositories.ErrPairingNotFound
}

type fakeUserRepo struct {
	users  []models.User
	nextID int
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
