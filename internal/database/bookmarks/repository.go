// Package bookmarks provides database operations for bookmark management.
//
// This package implements the BookmarkStore interface defined in
// internal/http/bookmarks.go and the transfer store used by CSV import.
//
// # Usage
//
//	repo := bookmarks.NewRepository(db)
//	bm, err := repo.GetBookmarkByID(id, userID)
package bookmarks

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/entities"
)

// Repository handles all bookmark database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookmarks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListOptions narrows and pages a bookmark listing. Zero values mean
// "no filter".
type ListOptions struct {
	Search    string
	TagNames  []string
	Favorite  *bool
	SortBy    string // created_at or title
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

// CreateBookmark persists a bookmark and links the given tags.
func (r *Repository) CreateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bookmark).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		var tags []entities.Tag
		if err := tx.Where("id IN ? AND user_id = ?", tagIDs, bookmark.UserID).Find(&tags).Error; err != nil {
			return err
		}
		return tx.Model(bookmark).Association("Tags").Replace(tags)
	})
}

// GetBookmarkByID retrieves a bookmark owned by the user, tags included.
func (r *Repository) GetBookmarkByID(id, userID uint) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark
	err := r.db.Preload("Tags").Where("user_id = ?", userID).First(&bookmark, id).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// FindBookmarkByPath retrieves the oldest bookmark with the given path, or
// (nil, nil) when none exists. With duplicates present the oldest row is the
// reconciliation target.
func (r *Repository) FindBookmarkByPath(userID uint, path string) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark
	err := r.db.Where("user_id = ? AND path = ?", userID, path).Order("created_at ASC").First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// ListBookmarks retrieves a filtered, paged listing plus the total count
// before paging.
func (r *Repository) ListBookmarks(userID uint, opts ListOptions) ([]entities.Bookmark, int64, error) {
	query := r.db.Model(&entities.Bookmark{}).Where("bookmarks.user_id = ?", userID)

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(path) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if opts.Favorite != nil {
		query = query.Where("is_favorite = ?", *opts.Favorite)
	}
	if len(opts.TagNames) > 0 {
		query = query.Where(`bookmarks.id IN (
			SELECT bookmark_id FROM bookmark_tags
			JOIN tags ON tags.id = bookmark_tags.tag_id
			WHERE tags.name IN ?
		)`, opts.TagNames)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(opts))

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
		if opts.Page > 1 {
			query = query.Offset((opts.Page - 1) * opts.Limit)
		}
	}

	var bookmarks []entities.Bookmark
	err := query.Preload("Tags").Find(&bookmarks).Error
	return bookmarks, total, err
}

func orderClause(opts ListOptions) string {
	column := "created_at"
	switch opts.SortBy {
	case "title":
		column = "title"
	case "updated_at":
		column = "updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

// ListAllBookmarks retrieves every bookmark for a user in creation order,
// tags preloaded. Used by CSV export.
func (r *Repository) ListAllBookmarks(userID uint) ([]entities.Bookmark, error) {
	var bookmarks []entities.Bookmark
	err := r.db.Preload("Tags").Where("user_id = ?", userID).Order("created_at ASC").Find(&bookmarks).Error
	return bookmarks, err
}

// UpdateBookmark updates the mutable fields of a bookmark and replaces its
// tag links.
func (r *Repository) UpdateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"path":        bookmark.Path,
			"title":       bookmark.Title,
			"description": bookmark.Description,
			"is_favorite": bookmark.IsFavorite,
		}
		if err := tx.Model(&entities.Bookmark{}).Where("id = ?", bookmark.ID).Updates(updates).Error; err != nil {
			return err
		}
		return replaceTags(tx, bookmark.ID, bookmark.UserID, tagIDs)
	})
}

// UpdateBookmarkFields updates title, description and the favorite flag only.
func (r *Repository) UpdateBookmarkFields(bookmarkID uint, title, description string, isFavorite bool) error {
	return r.db.Model(&entities.Bookmark{}).Where("id = ?", bookmarkID).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
		"is_favorite": isFavorite,
	}).Error
}

// ReplaceBookmarkTags rewrites the bookmark's tag links.
func (r *Repository) ReplaceBookmarkTags(bookmarkID uint, tagIDs []uint) error {
	var bookmark entities.Bookmark
	if err := r.db.First(&bookmark, bookmarkID).Error; err != nil {
		return err
	}
	return replaceTags(r.db, bookmarkID, bookmark.UserID, tagIDs)
}

func replaceTags(tx *gorm.DB, bookmarkID, userID uint, tagIDs []uint) error {
	bookmark := entities.Bookmark{ID: bookmarkID}
	if len(tagIDs) == 0 {
		return tx.Model(&bookmark).Association("Tags").Clear()
	}
	var tags []entities.Tag
	if err := tx.Where("id IN ? AND user_id = ?", tagIDs, userID).Find(&tags).Error; err != nil {
		return err
	}
	return tx.Model(&bookmark).Association("Tags").Replace(tags)
}

// ToggleFavorite flips the favorite flag and returns the updated bookmark.
func (r *Repository) ToggleFavorite(id, userID uint) (*entities.Bookmark, error) {
	bookmark, err := r.GetBookmarkByID(id, userID)
	if err != nil {
		return nil, err
	}
	// Update writes the new value back into the loaded struct
	err = r.db.Model(bookmark).Update("is_favorite", !bookmark.IsFavorite).Error
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

// DeleteBookmark removes a bookmark and its tag links. Deleting a missing or
// foreign bookmark returns gorm.ErrRecordNotFound.
func (r *Repository) DeleteBookmark(id, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bookmark entities.Bookmark
		if err := tx.Where("user_id = ?", userID).First(&bookmark, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&bookmark).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&bookmark).Error
	})
}

// CountBookmarks returns the number of bookmarks a user owns.
func (r *Repository) CountBookmarks(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Bookmark{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
