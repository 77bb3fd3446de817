package bookmarks

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookmarks/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_bookmarks_" + t.Name() + ".db"

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

func createTag(t *testing.T, db *gorm.DB, userID uint, name string) *entities.Tag {
	tag := &entities.Tag{UserID: userID, Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func TestRepository_CreateBookmark(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	tag := createTag(t, db, 1, "go")

	bookmark := &entities.Bookmark{
		UserID: 1,
		Path:   "https://go.dev",
		Title:  "Go",
	}
	err := repo.CreateBookmark(bookmark, []uint{tag.ID})

	require.NoError(t, err)
	assert.NotZero(t, bookmark.ID)

	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "go", loaded.Tags[0].Name)
}

func TestRepository_CreateBookmark_IgnoresForeignTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	foreign := createTag(t, db, 2, "not-mine")

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	err := repo.CreateBookmark(bookmark, []uint{foreign.ID})

	require.NoError(t, err)
	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tags)
}

func TestRepository_GetBookmarkByID_WrongUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, nil))

	_, err := repo.GetBookmarkByID(bookmark.ID, 2)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_FindBookmarkByPath(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	found, err := repo.FindBookmarkByPath(1, "https://go.dev")
	require.NoError(t, err)
	assert.Nil(t, found)

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, nil))

	found, err = repo.FindBookmarkByPath(1, "https://go.dev")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, bookmark.ID, found.ID)
}

func TestRepository_FindBookmarkByPath_ReturnsOldestDuplicate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	older := &entities.Bookmark{
		UserID:    1,
		Path:      "https://go.dev",
		Title:     "Old",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateBookmark(older, nil))

	newer := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "New"}
	require.NoError(t, repo.CreateBookmark(newer, nil))

	found, err := repo.FindBookmarkByPath(1, "https://go.dev")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, older.ID, found.ID)
}

func seedListing(t *testing.T, repo *Repository, db *gorm.DB) {
	goTag := createTag(t, db, 1, "go")
	webTag := createTag(t, db, 1, "web")

	items := []struct {
		path     string
		title    string
		desc     string
		favorite bool
		tags     []uint
		age      time.Duration
	}{
		{"https://go.dev", "Go language", "The Go site", true, []uint{goTag.ID}, 3 * time.Hour},
		{"https://gin-gonic.com", "Gin framework", "HTTP framework", false, []uint{goTag.ID, webTag.ID}, 2 * time.Hour},
		{"/home/user/todo.txt", "Todo list", "", false, nil, time.Hour},
	}

	for _, item := range items {
		bm := &entities.Bookmark{
			UserID:      1,
			Path:        item.path,
			Title:       item.title,
			Description: item.desc,
			IsFavorite:  item.favorite,
			CreatedAt:   time.Now().Add(-item.age),
		}
		require.NoError(t, repo.CreateBookmark(bm, item.tags))
	}
}

func TestRepository_ListBookmarks_DefaultsNewestFirst(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	list, total, err := repo.ListBookmarks(1, ListOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, "Todo list", list[0].Title)
	assert.Equal(t, "Go language", list[2].Title)
}

func TestRepository_ListBookmarks_Search(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	list, total, err := repo.ListBookmarks(1, ListOptions{Search: "framework"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Gin framework", list[0].Title)

	// Search is case-insensitive and covers the path
	list, _, err = repo.ListBookmarks(1, ListOptions{Search: "TODO.TXT"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_ListBookmarks_FavoriteFilter(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	favorite := true
	list, total, err := repo.ListBookmarks(1, ListOptions{Favorite: &favorite})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Go language", list[0].Title)

	notFavorite := false
	_, total, err = repo.ListBookmarks(1, ListOptions{Favorite: &notFavorite})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRepository_ListBookmarks_TagFilter(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	list, total, err := repo.ListBookmarks(1, ListOptions{TagNames: []string{"web"}})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Gin framework", list[0].Title)

	_, total, err = repo.ListBookmarks(1, ListOptions{TagNames: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRepository_ListBookmarks_SortByTitle(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	list, _, err := repo.ListBookmarks(1, ListOptions{SortBy: "title", SortOrder: "asc"})

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Gin framework", list[0].Title)
	assert.Equal(t, "Todo list", list[2].Title)
}

func TestRepository_ListBookmarks_SortByUpdatedAt(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	// Oldest bookmark was edited most recently
	older := &entities.Bookmark{
		UserID:    1,
		Path:      "https://go.dev",
		Title:     "Go language",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		UpdatedAt: time.Now(),
	}
	newer := &entities.Bookmark{
		UserID:    1,
		Path:      "https://gin-gonic.com",
		Title:     "Gin framework",
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateBookmark(older, nil))
	require.NoError(t, repo.CreateBookmark(newer, nil))

	list, _, err := repo.ListBookmarks(1, ListOptions{SortBy: "updated_at", SortOrder: "desc"})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Go language", list[0].Title)
	assert.Equal(t, "Gin framework", list[1].Title)
}

func TestRepository_ListBookmarks_Pagination(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	page1, total, err := repo.ListBookmarks(1, ListOptions{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page1, 2)

	page2, total, err := repo.ListBookmarks(1, ListOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page2, 1)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
}

func TestRepository_ListBookmarks_UserScoped(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	list, total, err := repo.ListBookmarks(2, ListOptions{})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestRepository_UpdateBookmark(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	oldTag := createTag(t, db, 1, "old")
	newTag := createTag(t, db, 1, "new")

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, []uint{oldTag.ID}))

	bookmark.Title = "Go Updated"
	bookmark.Description = "Changed"
	bookmark.IsFavorite = true
	err := repo.UpdateBookmark(bookmark, []uint{newTag.ID})

	require.NoError(t, err)
	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go Updated", loaded.Title)
	assert.Equal(t, "Changed", loaded.Description)
	assert.True(t, loaded.IsFavorite)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "new", loaded.Tags[0].Name)
}

func TestRepository_UpdateBookmarkFields(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, nil))

	err := repo.UpdateBookmarkFields(bookmark.ID, "New title", "New description", true)

	require.NoError(t, err)
	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "New title", loaded.Title)
	assert.Equal(t, "https://go.dev", loaded.Path) // path untouched
	assert.True(t, loaded.IsFavorite)
}

func TestRepository_ReplaceBookmarkTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	first := createTag(t, db, 1, "first")
	second := createTag(t, db, 1, "second")

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, []uint{first.ID}))

	require.NoError(t, repo.ReplaceBookmarkTags(bookmark.ID, []uint{second.ID}))

	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "second", loaded.Tags[0].Name)

	// Empty slice clears all links
	require.NoError(t, repo.ReplaceBookmarkTags(bookmark.ID, nil))
	loaded, err = repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tags)
}

func TestRepository_ToggleFavorite(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, nil))

	toggled, err := repo.ToggleFavorite(bookmark.ID, 1)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	// Returned state matches what was persisted
	loaded, err := repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.True(t, loaded.IsFavorite)

	toggled, err = repo.ToggleFavorite(bookmark.ID, 1)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)

	loaded, err = repo.GetBookmarkByID(bookmark.ID, 1)
	require.NoError(t, err)
	assert.False(t, loaded.IsFavorite)
}

func TestRepository_DeleteBookmark(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	tag := createTag(t, db, 1, "go")
	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, []uint{tag.ID}))

	require.NoError(t, repo.DeleteBookmark(bookmark.ID, 1))

	_, err := repo.GetBookmarkByID(bookmark.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The tag itself survives
	var count int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DeleteBookmark_WrongUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	bookmark := &entities.Bookmark{UserID: 1, Path: "https://go.dev", Title: "Go"}
	require.NoError(t, repo.CreateBookmark(bookmark, nil))

	err := repo.DeleteBookmark(bookmark.ID, 2)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_CountBookmarks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListing(t, repo, db)

	count, err := repo.CountBookmarks(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountBookmarks(2)
	require.NoError(t, err)
	assert.Zero(t, count)
}
