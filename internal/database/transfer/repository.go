// Package transfer provides the persistence adapter backing CSV import and
// export. It composes the bookmark and tag repositories behind the narrower
// store contract the reconciler works against.
package transfer

import (
	"github.com/mrlokans/bookmarks/internal/database/bookmarks"
	"github.com/mrlokans/bookmarks/internal/database/tags"
	"github.com/mrlokans/bookmarks/internal/entities"
)

type Store struct {
	bookmarks *bookmarks.Repository
	tags      *tags.Repository
}

func NewStore(bookmarkRepo *bookmarks.Repository, tagRepo *tags.Repository) *Store {
	return &Store{
		bookmarks: bookmarkRepo,
		tags:      tagRepo,
	}
}

func (s *Store) FindBookmarkByPath(userID uint, path string) (*entities.Bookmark, error) {
	return s.bookmarks.FindBookmarkByPath(userID, path)
}

func (s *Store) FindTagByName(userID uint, name string) (*entities.Tag, error) {
	return s.tags.FindTagByName(userID, name)
}

func (s *Store) CreateTag(userID uint, name string, isFavorite bool) (*entities.Tag, error) {
	return s.tags.CreateTag(userID, name, isFavorite)
}

func (s *Store) CreateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error {
	return s.bookmarks.CreateBookmark(bookmark, tagIDs)
}

func (s *Store) UpdateBookmark(bookmarkID uint, title, description string, isFavorite bool) error {
	return s.bookmarks.UpdateBookmarkFields(bookmarkID, title, description, isFavorite)
}

func (s *Store) ReplaceBookmarkTags(bookmarkID uint, tagIDs []uint) error {
	return s.bookmarks.ReplaceBookmarkTags(bookmarkID, tagIDs)
}

func (s *Store) UpdateTagFavorite(tagID uint, isFavorite bool) error {
	return s.tags.UpdateTagFavorite(tagID, isFavorite)
}

func (s *Store) ListBookmarks(userID uint) ([]entities.Bookmark, error) {
	return s.bookmarks.ListAllBookmarks(userID)
}

func (s *Store) ListTags(userID uint) ([]entities.Tag, error) {
	return s.tags.GetTagsForUser(userID)
}
