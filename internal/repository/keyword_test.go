package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/testhelpers"
)

func newTestRepo(t *testing.T) *KeywordRepository {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	return NewKeywordRepository(db.DB(), logger.NewNop())
}

func ingestRows(t *testing.T, repo *KeywordRepository, rows []models.KeywordRow) {
	t.Helper()
	_, err := repo.Ingest(context.Background(), rows, models.ModeAdd)
	require.NoError(t, err)
}

func TestIngest_AddInsertsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stats, err := repo.Ingest(ctx, []models.KeywordRow{
		{Text: "plumber", City: "Toronto"},
		{Text: "electrician", City: "Ottawa"},
	}, models.ModeAdd)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inserted)
	assert.Zero(t, stats.Skipped)

	// Same file again: idempotent, nothing inserted.
	stats, err = repo.Ingest(ctx, []models.KeywordRow{
		{Text: "plumber", City: "Toronto"},
		{Text: "electrician", City: "Ottawa"},
	}, models.ModeAdd)
	require.NoError(t, err)
	assert.Zero(t, stats.Inserted)
	assert.Equal(t, 2, stats.Skipped)
}

func TestIngest_IdentityIsTextAndCity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stats, err := repo.Ingest(ctx, []models.KeywordRow{
		{Text: "plumber", City: "Toronto"},
		{Text: "plumber", City: "Ottawa"},
		{Text: "plumber", City: ""},
		{Text: "Plumber", City: "Toronto"}, // case-sensitive, distinct
	}, models.ModeAdd)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Inserted)
}

func TestIngest_SyncNeverTouchesExistingStatuses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ingestRows(t, repo, []models.KeywordRow{{Text: "plumber", City: "Toronto"}})

	// Drive the existing keyword to failed.
	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusFailed))

	stats, err := repo.Ingest(ctx, []models.KeywordRow{
		{Text: "plumber", City: "Toronto"},
		{Text: "roofer", City: "Barrie"},
	}, models.ModeSync)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)

	snapshot, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Failed, "sync must not reset failed keywords")
	assert.Equal(t, 1, snapshot.Pending)
}

func TestIngest_ReplaceDeletesEverythingFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ingestRows(t, repo, []models.KeywordRow{
		{Text: "plumber", City: "Toronto"},
		{Text: "electrician", City: "Ottawa"},
		{Text: "roofer", City: "Barrie"},
	})

	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusDone))

	stats, err := repo.Ingest(ctx, []models.KeywordRow{
		{Text: "welder", City: "London"},
	}, models.ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Deleted)
	assert.Equal(t, 1, stats.Inserted)

	snapshot, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Total)
	assert.Equal(t, 1, snapshot.Pending)
	assert.Zero(t, snapshot.Done, "replace discards completed work")
}

func TestClaimNextPending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.ClaimNextPending(ctx)
	assert.ErrorIs(t, err, ErrNoPending)

	ingestRows(t, repo, []models.KeywordRow{
		{Text: "first", City: ""},
		{Text: "second", City: ""},
	})

	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", kw.Text, "claims oldest pending first")
	assert.Equal(t, models.StatusProcessing, kw.Status)

	snapshot, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Processing)
	assert.Equal(t, 1, snapshot.Pending)
}

func TestSetStatus_EnforcesTransitions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ingestRows(t, repo, []models.KeywordRow{{Text: "plumber", City: ""}})

	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusDone))

	// Done is permanent.
	err = repo.SetStatus(ctx, kw.ID, models.StatusPending)
	assert.Error(t, err)

	err = repo.SetStatus(ctx, kw.ID, models.StatusProcessing)
	assert.Error(t, err)
}

func TestSetStatus_UnknownID(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SetStatus(context.Background(), "no-such-id", models.StatusDone)
	assert.Error(t, err)
}

func TestResets(t *testing.T) {
	// Seed one keyword in each status.
	seed := func(t *testing.T) (*KeywordRepository, context.Context) {
		t.Helper()
		repo := newTestRepo(t)
		ctx := context.Background()

		ingestRows(t, repo, []models.KeywordRow{
			{Text: "done-kw"}, {Text: "failed-kw"}, {Text: "skipped-kw"},
			{Text: "processing-kw"}, {Text: "pending-kw"},
		})

		for _, target := range []models.KeywordStatus{
			models.StatusDone, models.StatusFailed, models.StatusSkipped,
		} {
			kw, err := repo.ClaimNextPending(ctx)
			require.NoError(t, err)
			require.NoError(t, repo.SetStatus(ctx, kw.ID, target))
		}
		_, err := repo.ClaimNextPending(ctx) // leaves processing-kw in processing
		require.NoError(t, err)

		return repo, ctx
	}

	t.Run("reset failed", func(t *testing.T) {
		repo, ctx := seed(t)

		affected, err := repo.ResetFailed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, affected)

		snapshot, err := repo.CountsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Pending)
		assert.Zero(t, snapshot.Failed)
		assert.Equal(t, 1, snapshot.Skipped)
	})

	t.Run("reset skipped", func(t *testing.T) {
		repo, ctx := seed(t)

		affected, err := repo.ResetSkipped(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, affected)

		snapshot, err := repo.CountsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Pending)
		assert.Zero(t, snapshot.Skipped)
		assert.Equal(t, 1, snapshot.Failed)
	})

	t.Run("reset processing only", func(t *testing.T) {
		repo, ctx := seed(t)

		affected, err := repo.ResetProcessing(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, affected)

		snapshot, err := repo.CountsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Pending)
		assert.Zero(t, snapshot.Processing)
		assert.Equal(t, 1, snapshot.Failed, "failed untouched")
		assert.Equal(t, 1, snapshot.Skipped, "skipped untouched")
	})

	t.Run("reset all spares done", func(t *testing.T) {
		repo, ctx := seed(t)

		affected, err := repo.ResetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, affected, "failed, skipped, and processing reset")

		snapshot, err := repo.CountsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, snapshot.Pending)
		assert.Equal(t, 1, snapshot.Done, "done is never reset")
		assert.Zero(t, snapshot.Failed)
		assert.Zero(t, snapshot.Skipped)
		assert.Zero(t, snapshot.Processing)
	})

	t.Run("reset on empty set", func(t *testing.T) {
		repo := newTestRepo(t)
		affected, err := repo.ResetAll(context.Background())
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestCountsByStatus_Identity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ingestRows(t, repo, []models.KeywordRow{
		{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"},
	})

	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusDone))
	kw, err = repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusFailed))

	snapshot, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.Total)
	assert.True(t, snapshot.Consistent())
}

func TestListPage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := make([]models.KeywordRow, 0, 7)
	for i := range 7 {
		rows = append(rows, models.KeywordRow{Text: fmt.Sprintf("kw-%02d", i)})
	}
	ingestRows(t, repo, rows)

	page, err := repo.ListPage(ctx, 1, 3, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "kw-00", page.Items[0].Text)

	page, err = repo.ListPage(ctx, 3, 3, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "kw-06", page.Items[0].Text)

	// Past the end: empty page, not an error.
	page, err = repo.ListPage(ctx, 9, 3, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListPage_StatusFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ingestRows(t, repo, []models.KeywordRow{{Text: "a"}, {Text: "b"}})
	kw, err := repo.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, kw.ID, models.StatusDone))

	page, err := repo.ListPage(ctx, 1, 10, models.StatusDone)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Text)

	_, err = repo.ListPage(ctx, 1, 10, models.KeywordStatus("bogus"))
	assert.Error(t, err)
}

func TestListPage_EmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	page, err := repo.ListPage(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}
