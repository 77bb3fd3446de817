package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/database/bookmarks"
	"github.com/mrlokans/bookmarks/internal/entities"
	"github.com/mrlokans/bookmarks/internal/pathtype"
)

// BookmarkStore defines the persistence operations the bookmark endpoints need.
type BookmarkStore interface {
	CreateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error
	GetBookmarkByID(id, userID uint) (*entities.Bookmark, error)
	ListBookmarks(userID uint, opts bookmarks.ListOptions) ([]entities.Bookmark, int64, error)
	UpdateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error
	DeleteBookmark(id, userID uint) error
	ToggleFavorite(id, userID uint) (*entities.Bookmark, error)
}

// TagResolver turns tag names into persisted tags during bookmark writes.
type TagResolver interface {
	GetOrCreateTag(userID uint, name string) (*entities.Tag, error)
}

type BookmarksController struct {
	store    BookmarkStore
	tags     TagResolver
	auditSvc *audit.Service
}

func NewBookmarksController(store BookmarkStore, tags TagResolver, auditSvc *audit.Service) *BookmarksController {
	return &BookmarksController{
		store:    store,
		tags:     tags,
		auditSvc: auditSvc,
	}
}

// bookmarkResponse decorates a bookmark with its classified path type.
type bookmarkResponse struct {
	entities.Bookmark
	PathType pathtype.Type `json:"path_type"`
}

func toBookmarkResponse(bm entities.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		Bookmark: bm,
		PathType: pathtype.Classify(bm.Path),
	}
}

func toBookmarkResponses(bms []entities.Bookmark) []bookmarkResponse {
	out := make([]bookmarkResponse, 0, len(bms))
	for _, bm := range bms {
		out = append(out, toBookmarkResponse(bm))
	}
	return out
}

type bookmarkRequest struct {
	Path        string   `json:"path" binding:"required,max=2000"`
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=1000"`
	IsFavorite  bool     `json:"is_favorite"`
	Tags        []string `json:"tags" binding:"dive,max=50"`
}

// ListBookmarks handles GET /api/bookmarks with filtering and pagination.
// Path type filtering happens after the database query because the type is
// derived from the path, not stored.
func (b *BookmarksController) ListBookmarks(c *gin.Context) {
	userID := GetUserID(c)
	page, limit := parsePagination(c, 20)

	opts := bookmarks.ListOptions{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if tags := c.Query("tags"); tags != "" {
		opts.TagNames = splitNonEmpty(tags)
	}
	if fav := c.Query("favorite"); fav != "" {
		favorite := fav == "true"
		opts.Favorite = &favorite
	}

	typeFilter := pathtype.Type(c.Query("path_type"))
	if typeFilter == "" {
		opts.Page = page
		opts.Limit = limit
	}

	items, total, err := b.store.ListBookmarks(userID, opts)
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}

	if typeFilter != "" {
		var matched []entities.Bookmark
		for _, bm := range items {
			if pathtype.Classify(bm.Path) == typeFilter {
				matched = append(matched, bm)
			}
		}
		total = int64(len(matched))
		items = pageSlice(matched, page, limit)
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       toBookmarkResponses(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	})
}

func pageSlice(items []entities.Bookmark, page, limit int) []entities.Bookmark {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// GetBookmark handles GET /api/bookmarks/:id.
func (b *BookmarksController) GetBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bm, err := b.store.GetBookmarkByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "bookmark")
			return
		}
		respondInternalError(c, err, "get bookmark")
		return
	}

	c.JSON(http.StatusOK, toBookmarkResponse(*bm))
}

// CreateBookmark handles POST /api/bookmarks.
func (b *BookmarksController) CreateBookmark(c *gin.Context) {
	userID := GetUserID(c)

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path and title are required")
		return
	}

	if !pathtype.Validate(req.Path) {
		respondBadRequest(c, "path must be a valid URL, file path, or network location")
		return
	}

	tagIDs, err := b.resolveTagNames(userID, req.Tags)
	if err != nil {
		respondInternalError(c, err, "resolve tags")
		return
	}

	bm := &entities.Bookmark{
		UserID:      userID,
		Path:        req.Path,
		Title:       req.Title,
		Description: req.Description,
		IsFavorite:  req.IsFavorite,
	}
	if err := b.store.CreateBookmark(bm, tagIDs); err != nil {
		respondInternalError(c, err, "create bookmark")
		return
	}

	created, err := b.store.GetBookmarkByID(bm.ID, userID)
	if err != nil {
		respondInternalError(c, err, "reload bookmark")
		return
	}

	b.auditSvc.LogChange(userID, "bookmark_create", "bookmark", bm.ID, nil)
	respondCreated(c, toBookmarkResponse(*created))
}

// UpdateBookmark handles PUT /api/bookmarks/:id.
func (b *BookmarksController) UpdateBookmark(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path and title are required")
		return
	}

	if !pathtype.Validate(req.Path) {
		respondBadRequest(c, "path must be a valid URL, file path, or network location")
		return
	}

	existing, err := b.store.GetBookmarkByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "bookmark")
			return
		}
		respondInternalError(c, err, "get bookmark")
		return
	}

	tagIDs, err := b.resolveTagNames(userID, req.Tags)
	if err != nil {
		respondInternalError(c, err, "resolve tags")
		return
	}

	existing.Path = req.Path
	existing.Title = req.Title
	existing.Description = req.Description
	existing.IsFavorite = req.IsFavorite

	if err := b.store.UpdateBookmark(existing, tagIDs); err != nil {
		respondInternalError(c, err, "update bookmark")
		return
	}

	updated, err := b.store.GetBookmarkByID(id, userID)
	if err != nil {
		respondInternalError(c, err, "reload bookmark")
		return
	}

	b.auditSvc.LogChange(userID, "bookmark_update", "bookmark", id, nil)
	c.JSON(http.StatusOK, toBookmarkResponse(*updated))
}

// ToggleFavorite handles POST /api/bookmarks/:id/favorite.
func (b *BookmarksController) ToggleFavorite(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bm, err := b.store.ToggleFavorite(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "bookmark")
			return
		}
		respondInternalError(c, err, "toggle favorite")
		return
	}

	c.JSON(http.StatusOK, toBookmarkResponse(*bm))
}

// DeleteBookmark handles DELETE /api/bookmarks/:id.
func (b *BookmarksController) DeleteBookmark(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := b.store.DeleteBookmark(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "bookmark")
			return
		}
		respondInternalError(c, err, "delete bookmark")
		return
	}

	b.auditSvc.LogChange(userID, "bookmark_delete", "bookmark", id, nil)
	respondSuccess(c, "bookmark deleted")
}

func (b *BookmarksController) resolveTagNames(userID uint, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag, err := b.tags.GetOrCreateTag(userID, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
