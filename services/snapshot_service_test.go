package services

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/storage"
	"github.com/openclassical/league-engine/structure"
)

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
}

func (u *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.key = key
	u.contentType = contentType
	u.body = body
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(context.Context, string) error { return nil }
func (u *fakeUploader) GetPublicURL(key string) string       { return key }

func TestArchiveSeason(t *testing.T) {
	_, seasonRepo, roundRepo := loneSeasonFixture("")
	uploader := &fakeUploader{}

	svc := NewSnapshotService(seasonRepo, roundRepo, uploader, nil)
	svc.(*snapshotService).now = func() time.Time { return time.Unix(1700000000, 0) }

	result, err := svc.ArchiveSeason(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "snapshots/season-10-1700000000.json", result.Key)
	assert.Equal(t, "application/json", uploader.contentType)

	var tournament structure.Tournament
	require.NoError(t, json.Unmarshal(uploader.body, &tournament))
	assert.Equal(t, 2, tournament.NumRounds())
	assert.Len(t, tournament.Competitors, 4)
}

func TestArchiveSeasonDisabled(t *testing.T) {
	_, seasonRepo, roundRepo := loneSeasonFixture("")
	svc := NewSnapshotService(seasonRepo, roundRepo, nil, nil)

	_, err := svc.ArchiveSeason(context.Background(), 10)
	assert.ErrorIs(t, err, ErrSnapshotsDisabled)
}

func TestArchiveSeasonNotFound(t *testing.T) {
	_, seasonRepo, roundRepo := loneSeasonFixture("")
	svc := NewSnapshotService(seasonRepo, roundRepo, &fakeUploader{}, nil)

	_, err := svc.ArchiveSeason(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}
