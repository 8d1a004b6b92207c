package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func encodeTree(t *testing.T, version uint64, people ...string) []byte {
	t.Helper()
	tree := entities.FamilyTree{Version: version}
	for _, name := range people {
		tree.People = append(tree.People, entities.Person{ID: name, Name: name})
	}
	data, err := entities.EncodeFamilyTree(tree)
	require.NoError(t, err)
	return data
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	for _, table := range []string{"snapshots", "audit_log"} {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}

	// Should not error when called again
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestRepository_Snapshots(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.LoadInitial(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.Save(ctx, encodeTree(t, 1, "a")))
	require.NoError(t, repo.Save(ctx, encodeTree(t, 2, "a", "b")))
	require.NoError(t, repo.Save(ctx, encodeTree(t, 3, "a", "b", "c")))

	data, err := repo.LoadInitial(ctx)
	require.NoError(t, err)
	tree, err := entities.DecodeFamilyTree(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), tree.Version)

	infos, err := repo.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, int64(3), infos[0].Version)
	assert.Equal(t, 3, infos[0].People)
	assert.Positive(t, infos[0].Size)
	assert.Equal(t, int64(2), infos[1].Version)

	old, err := repo.LoadSnapshot(ctx, 1)
	require.NoError(t, err)
	tree, err = entities.DecodeFamilyTree(old)
	require.NoError(t, err)
	assert.Len(t, tree.People, 1)

	_, err = repo.LoadSnapshot(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	removed, err := repo.PruneSnapshots(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	infos, err = repo.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	_, err = repo.PruneSnapshots(ctx, 0)
	assert.Error(t, err)
}

func TestRepository_SaveRejectsGarbage(t *testing.T) {
	repo := setupTestRepo(t)
	assert.Error(t, repo.Save(context.Background(), []byte("not json")))
}

func TestRepository_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "famitree.db")
	ctx := context.Background()

	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Save(ctx, encodeTree(t, 4, "a")))
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	data, err := reopened.LoadInitial(ctx)
	require.NoError(t, err)
	tree, err := entities.DecodeFamilyTree(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), tree.Version)
}

func TestRepository_AuditLog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	t.Run("log action with details", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionAddPerson, "admin", "p1", map[string]any{
			"name": "An",
		})
		require.NoError(t, err)
	})

	t.Run("log action without subject", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionImportPerson, "admin", "", map[string]any{
			"rows": 3,
		})
		require.NoError(t, err)
	})

	t.Run("log action without details", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionDeletePerson, "", "p2", nil)
		require.NoError(t, err)
	})

	t.Run("find by subject", func(t *testing.T) {
		entries, err := repo.FindAuditLog(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entities.ActionAddPerson, entries[0].Action)
		assert.Equal(t, "admin", entries[0].UserID)
		assert.Equal(t, "An", entries[0].Details["name"])
		assert.True(t, fixed.Equal(entries[0].CreatedAt))
	})

	t.Run("find by action", func(t *testing.T) {
		entries, err := repo.FindAuditLogByAction(ctx, entities.ActionImportPerson, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].SubjectID)
	})

	t.Run("all actions newest first", func(t *testing.T) {
		entries, err := repo.FindAuditLogByAction(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, entities.ActionDeletePerson, entries[0].Action)
		assert.Empty(t, entries[0].UserID)
	})

	t.Run("find by action with limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.LogAction(ctx, entities.ActionAddRelationship, "admin", "", nil))
		}

		entries, err := repo.FindAuditLogByAction(ctx, entities.ActionAddRelationship, 3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
