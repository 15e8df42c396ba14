package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openclassical/league-engine/convert"
	"github.com/openclassical/league-engine/repositories"
	"github.com/openclassical/league-engine/scoring"
	"github.com/openclassical/league-engine/storage"
)

// SnapshotService archives a season's full tournament state to the object
// store. Because the structure is immutable, an archived snapshot stays a
// valid standings source forever, whatever happens to the season afterwards.
type SnapshotService interface {
	ArchiveSeason(ctx context.Context, seasonID int) (*storage.UploadResult, error)
}

type snapshotService struct {
	loader   seasonLoader
	uploader storage.FileUploader
	presets  map[string]scoring.System
	now      func() time.Time
}

func NewSnapshotService(
	seasonRepo repositories.SeasonRepository,
	roundRepo repositories.RoundRepository,
	uploader storage.FileUploader,
	presets map[string]scoring.System,
) SnapshotService {
	return &snapshotService{
		loader:   seasonLoader{seasons: seasonRepo, rounds: roundRepo},
		uploader: uploader,
		presets:  presets,
		now:      time.Now,
	}
}

func (s *snapshotService) ArchiveSeason(ctx context.Context, seasonID int) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrSnapshotsDisabled
	}
	data, err := s.loader.load(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	system, err := resolvePreset(s.presets, data.League.ScoringPreset)
	if err != nil {
		return nil, err
	}
	tournament, err := convert.SeasonTournament(data, &system)
	if err != nil {
		return nil, fmt.Errorf("failed to convert season %d: %w", seasonID, err)
	}

	payload, err := json.Marshal(tournament)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot for season %d: %w", seasonID, err)
	}

	key := fmt.Sprintf("snapshots/season-%d-%d.json", seasonID, s.now().Unix())
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to archive snapshot for season %d: %w", seasonID, err)
	}
	return result, nil
}
