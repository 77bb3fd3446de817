package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookmarks/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_tags_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Bookmark{},
		&entities.Tag{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateTag(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.CreateTag(1, "reading", true)

	require.NoError(t, err)
	assert.NotZero(t, tag.ID)
	assert.Equal(t, "reading", tag.Name)
	assert.Equal(t, uint(1), tag.UserID)
	assert.True(t, tag.IsFavorite)
}

func TestRepository_CreateTag_DuplicateNameFails(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	_, err = repo.CreateTag(1, "reading", false)
	assert.Error(t, err)

	// Same name for a different user is fine
	_, err = repo.CreateTag(2, "reading", false)
	assert.NoError(t, err)
}

func TestRepository_FindTagByName(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	found, err := repo.FindTagByName(1, "missing")
	require.NoError(t, err)
	assert.Nil(t, found)

	created, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	found, err = repo.FindTagByName(1, "reading")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// Scoped to the owner
	found, err = repo.FindTagByName(2, "reading")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_GetOrCreateTag(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreateTag(1, "science")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := repo.GetOrCreateTag(1, "science")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRepository_GetTagsForUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateTag(1, "zebra", false)
	require.NoError(t, err)
	_, err = repo.CreateTag(1, "alpha", false)
	require.NoError(t, err)
	_, err = repo.CreateTag(2, "other", false)
	require.NoError(t, err)

	tags, err := repo.GetTagsForUser(1)

	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "alpha", tags[0].Name) // sorted by name
	assert.Equal(t, "zebra", tags[1].Name)
}

func TestRepository_SearchTags(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"golang", "go-tools", "python"} {
		_, err := repo.CreateTag(1, name, false)
		require.NoError(t, err)
	}

	matches, err := repo.SearchTags(1, "go")

	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRepository_UpdateTag(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	updated, err := repo.UpdateTag(tag.ID, 1, "books", true)

	require.NoError(t, err)
	assert.Equal(t, "books", updated.Name)
	assert.True(t, updated.IsFavorite)
}

func TestRepository_UpdateTagFavorite(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTagFavorite(tag.ID, true))

	found, err := repo.FindTagByName(1, "reading")
	require.NoError(t, err)
	assert.True(t, found.IsFavorite)
}

func TestRepository_DeleteTag(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go", Tags: []entities.Tag{*tag}}
	require.NoError(t, db.Create(bookmark).Error)

	require.NoError(t, repo.DeleteTag(tag.ID, 1))

	found, err := repo.FindTagByName(1, "reading")
	require.NoError(t, err)
	assert.Nil(t, found)

	// The bookmark itself survives without the tag
	var loaded entities.Bookmark
	require.NoError(t, db.Preload("Tags").First(&loaded, bookmark.ID).Error)
	assert.Empty(t, loaded.Tags)
}

func TestRepository_CountBookmarksForTag(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.CreateTag(1, "reading", false)
	require.NoError(t, err)

	count, err := repo.CountBookmarksForTag(tag.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go", Tags: []entities.Tag{*tag}}
	require.NoError(t, db.Create(bookmark).Error)

	count, err = repo.CountBookmarksForTag(tag.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DeleteOrphanTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	linked, err := repo.CreateTag(1, "linked", false)
	require.NoError(t, err)
	_, err = repo.CreateTag(1, "orphan", false)
	require.NoError(t, err)
	_, err = repo.CreateTag(1, "favorite-orphan", true)
	require.NoError(t, err)

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go", Tags: []entities.Tag{*linked}}
	require.NoError(t, db.Create(bookmark).Error)

	deleted, err := repo.DeleteOrphanTags()

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.GetTagsForUser(1)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "favorite-orphan", remaining[0].Name)
	assert.Equal(t, "linked", remaining[1].Name)
}
