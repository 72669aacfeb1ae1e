package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testJob(url string) *domain.Job {
	return &domain.Job{
		URL:         url,
		CompanyName: "Acme",
		JobTitle:    "Senior Engineer",
		Location:    "Remote",
		JobSummary:  "Builds things.",
		DateAdded:   "2026-08-30",
		Priority:    domain.DefaultPriority,
	}
}

func TestRepository_AppendAndList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testJob("https://example.com/1")))
	require.NoError(t, repo.Append(ctx, testJob("https://example.com/2")))

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://example.com/1", jobs[0].URL)
	assert.Equal(t, "Acme", jobs[0].CompanyName)
	assert.Equal(t, domain.DefaultPriority, jobs[1].Priority)
}

func TestRepository_AppendDuplicate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testJob("https://example.com/1")))
	err := repo.Append(ctx, testJob("https://example.com/1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateURL)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testJob("https://example.com/1")))

	deleted, err := repo.Delete(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.False(t, deleted)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRepository_UpdatePriority(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testJob("https://example.com/1")))

	updated, err := repo.UpdatePriority(ctx, "https://example.com/1", 9)
	require.NoError(t, err)
	assert.True(t, updated)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 9, jobs[0].Priority)
	assert.Equal(t, "Senior Engineer", jobs[0].JobTitle)

	updated, err = repo.UpdatePriority(ctx, "https://example.com/absent", 3)
	require.NoError(t, err)
	assert.False(t, updated)
}
