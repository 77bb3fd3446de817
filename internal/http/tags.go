package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// TagStore defines the persistence operations the tag endpoints need.
type TagStore interface {
	CreateTag(userID uint, name string, isFavorite bool) (*entities.Tag, error)
	FindTagByName(userID uint, name string) (*entities.Tag, error)
	GetOrCreateTag(userID uint, name string) (*entities.Tag, error)
	GetTagByID(id, userID uint) (*entities.Tag, error)
	GetTagsForUser(userID uint) ([]entities.Tag, error)
	SearchTags(userID uint, query string) ([]entities.Tag, error)
	UpdateTag(id, userID uint, name string, isFavorite bool) (*entities.Tag, error)
	DeleteTag(id, userID uint) error
	CountBookmarksForTag(tagID uint) (int64, error)
}

type TagsController struct {
	store    TagStore
	auditSvc *audit.Service
}

func NewTagsController(store TagStore, auditSvc *audit.Service) *TagsController {
	return &TagsController{
		store:    store,
		auditSvc: auditSvc,
	}
}

type tagRequest struct {
	Name       string `json:"name" binding:"required,max=50"`
	IsFavorite bool   `json:"is_favorite"`
}

// tagResponse decorates a tag with its bookmark count.
type tagResponse struct {
	entities.Tag
	BookmarkCount int64 `json:"bookmark_count"`
}

// GetAllTags handles GET /api/tags.
func (t *TagsController) GetAllTags(c *gin.Context) {
	userID := GetUserID(c)

	tags, err := t.store.GetTagsForUser(userID)
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}

	out := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		count, err := t.store.CountBookmarksForTag(tag.ID)
		if err != nil {
			respondInternalError(c, err, "count tag bookmarks")
			return
		}
		out = append(out, tagResponse{Tag: tag, BookmarkCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"tags": out})
}

// CreateTag handles POST /api/tags.
func (t *TagsController) CreateTag(c *gin.Context) {
	userID := GetUserID(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	existing, err := t.store.FindTagByName(userID, name)
	if err != nil {
		respondInternalError(c, err, "check tag name")
		return
	}
	if existing != nil {
		respondConflict(c, "tag already exists")
		return
	}

	tag, err := t.store.CreateTag(userID, name, req.IsFavorite)
	if err != nil {
		respondInternalError(c, err, "create tag")
		return
	}

	t.auditSvc.LogChange(userID, "tag_create", "tag", tag.ID, nil)
	respondCreated(c, tag)
}

// UpdateTag handles PUT /api/tags/:id.
func (t *TagsController) UpdateTag(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	// A rename must not collide with another tag of the same user
	existing, err := t.store.FindTagByName(userID, name)
	if err != nil {
		respondInternalError(c, err, "check tag name")
		return
	}
	if existing != nil && existing.ID != id {
		respondConflict(c, "tag already exists")
		return
	}

	tag, err := t.store.UpdateTag(id, userID, name, req.IsFavorite)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "tag")
			return
		}
		respondInternalError(c, err, "update tag")
		return
	}

	t.auditSvc.LogChange(userID, "tag_update", "tag", id, nil)
	c.JSON(http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/:id.
func (t *TagsController) DeleteTag(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := t.store.DeleteTag(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "tag")
			return
		}
		respondInternalError(c, err, "delete tag")
		return
	}

	t.auditSvc.LogChange(userID, "tag_delete", "tag", id, nil)
	respondSuccess(c, "tag deleted")
}

// TagSuggest handles GET /api/tags/suggest?q=... for autocomplete.
func (t *TagsController) TagSuggest(c *gin.Context) {
	userID := GetUserID(c)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"tags": []entities.Tag{}})
		return
	}

	tags, err := t.store.SearchTags(userID, query)
	if err != nil {
		respondInternalError(c, err, "suggest tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
