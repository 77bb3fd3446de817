package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/database/tokens"
	"github.com/mrlokans/bookmarks/internal/database/users"
	"github.com/mrlokans/bookmarks/internal/entities"
)

func setupTokensRouter(t *testing.T, userID uint) (*gin.Engine, func()) {
	env, cleanup := setupTestEnv(t)

	userRepo := users.NewRepository(env.db)
	_, err := userRepo.CreateUser("alice", "alice@example.com", "hashed", entities.UserRoleUser)
	require.NoError(t, err)

	authService := auth.NewService(env.db, config.Auth{Mode: config.AuthModeLocal, BcryptCost: 4})
	controller := NewTokensController(authService, tokens.NewRepository(env.db), env.auditSvc)

	router := newTestRouter(userID)
	router.GET("/api/tokens", controller.ListTokens)
	router.POST("/api/tokens", controller.CreateToken)
	router.DELETE("/api/tokens/:id", controller.RevokeToken)

	return router, cleanup
}

func TestCreateToken(t *testing.T) {
	router, cleanup := setupTokensRouter(t, 1)
	defer cleanup()

	w := postJSON(router, "/api/tokens", `{"name": "ci"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp createTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ci", resp.APIToken.Name)
	// Plaintext and stored hash must differ
	assert.NotEqual(t, resp.Token, resp.APIToken.TokenHash)
}

func TestCreateToken_NameRequired(t *testing.T) {
	router, cleanup := setupTokensRouter(t, 1)
	defer cleanup()

	w := postJSON(router, "/api/tokens", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestListTokens(t *testing.T) {
	router, cleanup := setupTokensRouter(t, 1)
	defer cleanup()

	w := postJSON(router, "/api/tokens", `{"name": "ci"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(router, "/api/tokens", `{"name": "backup"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, "/api/tokens")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tokens []entities.APIToken `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Tokens, 2)
}

func TestRevokeToken(t *testing.T) {
	router, cleanup := setupTokensRouter(t, 1)
	defer cleanup()

	w := postJSON(router, "/api/tokens", `{"name": "ci"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created createTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/tokens/%d", created.APIToken.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/tokens/%d", created.APIToken.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
