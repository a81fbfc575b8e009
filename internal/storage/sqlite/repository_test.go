package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/internal/caption"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/storage"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func record(session, id, platform string, at time.Time) *models.GenerationRecord {
	return models.NewRecord(session, &models.GenerationResult{
		ID: id,
		Request: models.CampaignRequest{
			Platform:    platform,
			Persona:     "Balanced Explorer",
			CourseTitle: "Open Day",
		},
		Caption:      "Come explore " + id,
		Hashtags:     []string{"#learning", "#NZEducation"},
		LengthStatus: caption.LengthGood,
		CharCount:    20,
		CharLimit:    150,
		Seed:         1<<63 + 7,
		Timestamp:    at,
	})
}

func TestSaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveGeneration(ctx, record("s1", "r1", "Instagram", at)))

	got, err := repo.GetGeneration(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, models.StringSlice{"#learning", "#NZEducation"}, got.Hashtags)
	assert.Equal(t, uint64(1<<63+7), got.Result().Seed)
	assert.True(t, got.GeneratedAt.Equal(at))

	_, err = repo.GetGeneration(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListGenerationsFiltersAndOrders(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		platform := "Instagram"
		if i%2 == 1 {
			platform = "TikTok"
		}
		rec := record("s1", fmt.Sprintf("r%d", i), platform, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SaveGeneration(ctx, rec))
	}
	require.NoError(t, repo.SaveGeneration(ctx, record("s2", "other", "Instagram", base)))

	asc, err := repo.ListGenerations(ctx, storage.GenerationFilter{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, asc, 4)
	assert.Equal(t, "r0", asc[0].ResultID)
	assert.Equal(t, "r3", asc[3].ResultID)

	desc, err := repo.ListGenerations(ctx, storage.GenerationFilter{SessionID: "s1", Platform: "TikTok", OrderDesc: true})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, "r3", desc[0].ResultID)

	page, err := repo.ListGenerations(ctx, storage.GenerationFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestDeleteSession(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.SaveGeneration(ctx, record("s1", "a", "Instagram", now)))
	require.NoError(t, repo.SaveGeneration(ctx, record("s1", "b", "Instagram", now)))
	require.NoError(t, repo.SaveGeneration(ctx, record("s2", "c", "Instagram", now)))

	n, err := repo.DeleteSession(ctx, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rest, err := repo.ListGenerations(ctx, storage.DefaultGenerationFilter())
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].ResultID)
}

func TestTrackerSyncQueue(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.SaveGeneration(ctx, record("s1", id, "Facebook", now)))
	}

	pending, err := repo.ListUntracked(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, repo.MarkTracked(ctx, []uint{pending[0].ID, pending[1].ID}))
	require.NoError(t, repo.MarkTracked(ctx, nil))

	pending, err = repo.ListUntracked(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ResultID)
}
