package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// TokenStore lists a user's API tokens. Creation and revocation go through
// the auth service so hashing rules live in one place.
type TokenStore interface {
	GetTokensForUser(userID uint) ([]entities.APIToken, error)
}

type TokensController struct {
	service  *auth.Service
	store    TokenStore
	auditSvc *audit.Service
}

func NewTokensController(service *auth.Service, store TokenStore, auditSvc *audit.Service) *TokensController {
	return &TokensController{
		service:  service,
		store:    store,
		auditSvc: auditSvc,
	}
}

type createTokenRequest struct {
	Name string `json:"name" binding:"required"`
}

// createTokenResponse carries the plaintext token exactly once.
type createTokenResponse struct {
	Token    string            `json:"token"`
	APIToken entities.APIToken `json:"api_token"`
}

// ListTokens handles GET /api/tokens. Token hashes are never serialized.
func (t *TokensController) ListTokens(c *gin.Context) {
	tokens, err := t.store.GetTokensForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// CreateToken handles POST /api/tokens.
func (t *TokensController) CreateToken(c *gin.Context) {
	userID := GetUserID(c)

	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	plaintext, apiToken, err := t.service.GenerateToken(userID, req.Name)
	if err != nil {
		respondInternalError(c, err, "create token")
		return
	}

	t.auditSvc.LogChange(userID, "token_create", "api_token", apiToken.ID, nil)
	respondCreated(c, createTokenResponse{
		Token:    plaintext,
		APIToken: *apiToken,
	})
}

// RevokeToken handles DELETE /api/tokens/:id.
func (t *TokensController) RevokeToken(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := t.service.RevokeToken(userID, id); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			respondNotFound(c, "token")
			return
		}
		respondInternalError(c, err, "revoke token")
		return
	}

	t.auditSvc.LogChange(userID, "token_revoke", "api_token", id, nil)
	respondSuccess(c, "token revoked")
}
