// Package tags provides database operations for tag management.
//
// This package implements the TagStore interface defined in internal/http/tags.go.
//
// # Interface Implementation
//
//	var _ http.TagStore = (*Repository)(nil)
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreateTag(userID, "reading")
package tags

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTag creates a new tag. Names are unique per user; a duplicate name
// surfaces as a constraint error.
func (r *Repository) CreateTag(userID uint, name string, isFavorite bool) (*entities.Tag, error) {
	tag := &entities.Tag{
		UserID:     userID,
		Name:       name,
		IsFavorite: isFavorite,
	}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// FindTagByName retrieves a tag by exact name, or (nil, nil) when absent.
func (r *Repository) FindTagByName(userID uint, name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetOrCreateTag retrieves or creates a tag by name.
func (r *Repository) GetOrCreateTag(userID uint, name string) (*entities.Tag, error) {
	tag, err := r.FindTagByName(userID, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}
	return r.CreateTag(userID, name, false)
}

// GetTagByID retrieves a tag owned by the user.
func (r *Repository) GetTagByID(id, userID uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("user_id = ?", userID).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagsForUser retrieves all tags for a user sorted by name.
func (r *Repository) GetTagsForUser(userID uint) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// SearchTags searches tags by name (case-insensitive partial match).
func (r *Repository) SearchTags(userID uint, query string) ([]entities.Tag, error) {
	var tags []entities.Tag
	pattern := "%" + query + "%"
	err := r.db.Where("user_id = ? AND LOWER(name) LIKE LOWER(?)", userID, pattern).Order("name ASC").Find(&tags).Error
	return tags, err
}

// UpdateTag renames a tag and sets its favorite flag.
func (r *Repository) UpdateTag(id, userID uint, name string, isFavorite bool) (*entities.Tag, error) {
	tag, err := r.GetTagByID(id, userID)
	if err != nil {
		return nil, err
	}
	err = r.db.Model(tag).Updates(map[string]interface{}{
		"name":        name,
		"is_favorite": isFavorite,
	}).Error
	if err != nil {
		return nil, err
	}
	tag.Name = name
	tag.IsFavorite = isFavorite
	return tag, nil
}

// UpdateTagFavorite sets only the favorite flag.
func (r *Repository) UpdateTagFavorite(tagID uint, isFavorite bool) error {
	return r.db.Model(&entities.Tag{}).Where("id = ?", tagID).Update("is_favorite", isFavorite).Error
}

// DeleteTag removes a tag and its bookmark links.
func (r *Repository) DeleteTag(id, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag entities.Tag
		if err := tx.Where("user_id = ?", userID).First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&tag).Association("Bookmarks").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// CountBookmarksForTag returns how many bookmarks carry the tag.
func (r *Repository) CountBookmarksForTag(tagID uint) (int64, error) {
	var count int64
	err := r.db.Table("bookmark_tags").Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

// DeleteOrphanTags removes all tags with no bookmark links. Favorite tags
// are kept even when unused.
func (r *Repository) DeleteOrphanTags() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM bookmark_tags)
		AND is_favorite = false
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
