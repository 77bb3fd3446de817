package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/database"
	"github.com/mrlokans/bookmarks/internal/database/bookmarks"
)

func writeImportFixture(t *testing.T, csv string) (csvPath, dbPath string) {
	dir := t.TempDir()
	csvPath = filepath.Join(dir, "import.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o600))
	return csvPath, filepath.Join(dir, "bookmarks.db")
}

func countBookmarks(t *testing.T, dbPath string) int64 {
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	count, err := bookmarks.NewRepository(db.DB).CountBookmarks(auth.DefaultUserID)
	require.NoError(t, err)
	return count
}

func TestImportCommand_ParseFlags(t *testing.T) {
	cmd := NewImportBookmarksCommand()
	err := cmd.ParseFlags([]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-file is required")

	cmd = NewImportBookmarksCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", "in.csv", "-mode", "update", "-dry-run"}))
	assert.Equal(t, "in.csv", cmd.FilePath)
	assert.Equal(t, "update", cmd.Mode)
	assert.True(t, cmd.DryRun)
}

func TestImportCommand_Run(t *testing.T) {
	csvPath, dbPath := writeImportFixture(t,
		"path,title,tags\nhttps://go.dev,Go,\"programming, go\"\n/etc/hosts,Hosts,")

	cmd := NewImportBookmarksCommand()
	cmd.FilePath = csvPath
	cmd.DatabasePath = dbPath
	cmd.Mode = "skip"

	require.NoError(t, cmd.Run())
	assert.Equal(t, int64(2), countBookmarks(t, dbPath))
}

func TestImportCommand_DryRun(t *testing.T) {
	csvPath, dbPath := writeImportFixture(t,
		"path,title\nhttps://go.dev,Go")

	cmd := NewImportBookmarksCommand()
	cmd.FilePath = csvPath
	cmd.DatabasePath = dbPath
	cmd.Mode = "skip"
	cmd.DryRun = true

	require.NoError(t, cmd.Run())
	// Preview prints the plan without touching the database
	assert.Equal(t, int64(0), countBookmarks(t, dbPath))
}
