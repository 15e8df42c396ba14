package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/repositories"
)

type LeagueService interface {
	List(ctx context.Context, activeOnly bool) ([]models.League, error)
	GetByTag(ctx context.Context, tag string) (*models.League, error)
	ListSeasons(ctx context.Context, leagueID int) ([]models.Season, error)
}

type leagueService struct {
	leagues repositories.LeagueRepository
	seasons repositories.SeasonRepository
}

func NewLeagueService(leagueRepo repositories.LeagueRepository, seasonRepo repositories.SeasonRepository) LeagueService {
	return &leagueService{leagues: leagueRepo, seasons: seasonRepo}
}

func (s *leagueService) List(ctx context.Context, activeOnly bool) ([]models.League, error) {
	leagues, err := s.leagues.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

func (s *leagueService) GetByTag(ctx context.Context, tag string) (*models.League, error) {
	league, err := s.leagues.GetByTag(ctx, tag)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %q: %w", tag, err)
	}
	return league, nil
}

func (s *leagueService) ListSeasons(ctx context.Context, leagueID int) ([]models.Season, error) {
	if _, err := s.leagues.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	seasons, err := s.seasons.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons for league %d: %w", leagueID, err)
	}
	return seasons, nil
}
