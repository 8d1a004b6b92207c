package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

// executeCmd runs the CLI with args inside dir.
func executeCmd(t *testing.T, args ...string) error {
	t.Helper()
	globalUser, globalVerbose = "", false
	t.Cleanup(func() { globalUser, globalVerbose = "", false })

	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// initWorkspace initializes famitree in a temp dir with backend and admin
// "lan", and makes it the working directory.
func initWorkspace(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, executeCmd(t, "init", "--family", "Nguyen", "--backend", backend, "--admin", "lan"))
	return dir
}

func snapshot(t *testing.T) entities.FamilyTree {
	t.Helper()
	var tree entities.FamilyTree
	require.NoError(t, withInternalDeps(context.Background(), func(d *internalDeps) error {
		tree = d.store.Snapshot()
		return nil
	}))
	return tree
}

func TestCLI_InitWritesConfig(t *testing.T) {
	dir := initWorkspace(t, config.BackendFile)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "lan", cfg.User.ID)

	users, err := config.LoadUsers(dir)
	require.NoError(t, err)
	assert.True(t, users.Users["lan"].IsAdmin())

	assert.Error(t, executeCmd(t, "init"), "second init must fail")
}

func TestCLI_EditAndPersist(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			initWorkspace(t, backend)

			require.NoError(t, executeCmd(t, "person", "add", "--name", "An", "--gender", "male", "--birth", "04/03/1950"))
			require.NoError(t, executeCmd(t, "person", "add", "--name", "Binh"))

			tree := snapshot(t)
			require.Len(t, tree.People, 2)
			an, binh := tree.People[0], tree.People[1]
			assert.Equal(t, entities.FlexDate("1950-03-04"), an.BirthDate)

			require.NoError(t, executeCmd(t, "relate", "parent", an.ID, binh.ID))
			require.NoError(t, executeCmd(t, "person", "update", binh.ID, "--notes", "doctor"))

			tree = snapshot(t)
			require.Len(t, tree.Relationships, 1)
			assert.Equal(t, entities.RelationParentChild, tree.Relationships[0].Type)
			assert.Equal(t, "doctor", tree.People[1].Notes)
			assert.Equal(t, uint64(4), tree.Version)

			require.NoError(t, executeCmd(t, "tree"))
			require.NoError(t, executeCmd(t, "person", "show", an.ID))
			require.NoError(t, executeCmd(t, "summary", "--all"))

			require.NoError(t, executeCmd(t, "person", "delete", an.ID))
			tree = snapshot(t)
			assert.Len(t, tree.People, 1)
			assert.Empty(t, tree.Relationships)
		})
	}
}

func TestCLI_ViewerCannotEdit(t *testing.T) {
	dir := initWorkspace(t, config.BackendSQLite)
	require.NoError(t, addUser(dir, "minh", config.UserEntry{Role: config.RoleViewer}))

	err := executeCmd(t, "--user", "minh", "person", "add", "--name", "X")
	assert.ErrorIs(t, err, errReadOnly)

	err = executeCmd(t, "--user", "nobody", "person", "add", "--name", "X")
	assert.ErrorIs(t, err, errReadOnly)

	assert.Empty(t, snapshot(t).People)
}

func TestCLI_UnknownPerson(t *testing.T) {
	initWorkspace(t, config.BackendSQLite)

	assert.Error(t, executeCmd(t, "person", "show", "missing"))
	assert.Error(t, executeCmd(t, "relate", "spouse", "a", "b"))
}

func TestCLI_BranchNeedsRoot(t *testing.T) {
	initWorkspace(t, config.BackendSQLite)

	assert.ErrorIs(t, executeCmd(t, "branch"), errNoBranchSelected)
}

func TestCLI_HistoryNeedsSQLite(t *testing.T) {
	initWorkspace(t, config.BackendFile)

	assert.ErrorIs(t, executeCmd(t, "history", "versions"), errHistoryNeedsSQL)
}

func TestCLI_History(t *testing.T) {
	initWorkspace(t, config.BackendSQLite)
	require.NoError(t, executeCmd(t, "person", "add", "--name", "An"))
	require.NoError(t, executeCmd(t, "person", "add", "--name", "Binh"))

	require.NoError(t, executeCmd(t, "history", "versions"))
	require.NoError(t, executeCmd(t, "history", "show", "2"))
	require.NoError(t, executeCmd(t, "history", "audit", "--action", entities.ActionAddPerson))
	require.NoError(t, executeCmd(t, "history", "prune", "--keep", "1"))
	assert.Error(t, executeCmd(t, "history", "show", "1"))
}

func TestCLI_ExportImport(t *testing.T) {
	dir := initWorkspace(t, config.BackendSQLite)
	require.NoError(t, executeCmd(t, "person", "add", "--name", "An", "--death", "1999"))

	path := dir + "/backup.csv"
	require.NoError(t, executeCmd(t, "export", path))
	require.NoError(t, executeCmd(t, "person", "update", snapshot(t).People[0].ID, "--name", "Changed"))

	require.NoError(t, executeCmd(t, "import", path, "--dry-run"))
	assert.Equal(t, "Changed", snapshot(t).People[0].Name)

	require.NoError(t, executeCmd(t, "import", path))
	people := snapshot(t).People
	require.Len(t, people, 1)
	assert.Equal(t, "An", people[0].Name)
	assert.Equal(t, entities.FlexDate("1999"), people[0].DeathDate)

	assert.Error(t, executeCmd(t, "import", path, "--format", "xml"))
}
