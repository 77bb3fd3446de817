package http

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookmarks/internal/database"
)

func TestHealthStatus(t *testing.T) {
	dbPath := "./test_health_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := db.DB.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthController(db, "1.2.3").Status)

	w := doRequest(router, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHealthStatus_NoDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthController(nil, "").Status)

	w := doRequest(router, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}
