package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	if cfg.AuthService != nil {
		authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter, cfg.AuditService)

		authGroup := router.Group("/api/auth")
		if cfg.RateLimiter != nil {
			authGroup.POST("/login", cfg.RateLimiter.RateLimitMiddleware(), authController.Login)
		} else {
			authGroup.POST("/login", authController.Login)
		}
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/logout", authController.Logout)
		authGroup.GET("/me", authController.Me)
	}

	// Bookmark endpoints
	if cfg.BookmarkStore != nil {
		bookmarksController := NewBookmarksController(cfg.BookmarkStore, cfg.TagStore, cfg.AuditService)
		router.GET("/api/bookmarks", bookmarksController.ListBookmarks)
		router.POST("/api/bookmarks", bookmarksController.CreateBookmark)
		router.GET("/api/bookmarks/:id", bookmarksController.GetBookmark)
		router.PUT("/api/bookmarks/:id", bookmarksController.UpdateBookmark)
		router.DELETE("/api/bookmarks/:id", bookmarksController.DeleteBookmark)
		router.POST("/api/bookmarks/:id/favorite", bookmarksController.ToggleFavorite)
	}

	// Tag endpoints
	if cfg.TagStore != nil {
		tagsController := NewTagsController(cfg.TagStore, cfg.AuditService)
		router.GET("/api/tags", tagsController.GetAllTags)
		router.POST("/api/tags", tagsController.CreateTag)
		router.GET("/api/tags/suggest", tagsController.TagSuggest)
		router.PUT("/api/tags/:id", tagsController.UpdateTag)
		router.DELETE("/api/tags/:id", tagsController.DeleteTag)
	}

	// CSV import/export endpoints
	if cfg.TransferService != nil {
		transferController := NewTransferController(cfg.TransferService, cfg.AuditService)
		router.POST("/api/bookmarks/import", transferController.ImportBookmarks)
		router.GET("/api/bookmarks/export", transferController.ExportBookmarks)
		router.POST("/api/tags/import", transferController.ImportTags)
		router.GET("/api/tags/export", transferController.ExportTags)
	}

	// API token management endpoints
	if cfg.AuthService != nil && cfg.TokenStore != nil {
		tokensController := NewTokensController(cfg.AuthService, cfg.TokenStore, cfg.AuditService)
		router.GET("/api/tokens", tokensController.ListTokens)
		router.POST("/api/tokens", tokensController.CreateToken)
		router.DELETE("/api/tokens/:id", tokensController.RevokeToken)
	}

	// Admin endpoints require the admin role when auth is enabled
	requireAdmin := func() gin.HandlerFunc {
		if cfg.AuthMiddleware != nil {
			return cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin)
		}
		return func(c *gin.Context) { c.Next() }
	}

	// Audit trail endpoints
	if cfg.AuditService != nil {
		auditController := NewAuditLogsController(cfg.AuditService)
		router.GET("/api/audit-logs", auditController.GetLogs)

		admin := router.Group("/api/admin", requireAdmin())
		admin.GET("/audit-logs", auditController.GetAllLogs)
		admin.GET("/audit-logs/export", auditController.ExportLogs)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		adminTasks := router.Group("/api/admin/tasks", requireAdmin())
		adminTasks.GET("/types", tasksController.ListTaskTypes)
		adminTasks.GET("/:id", tasksController.GetTaskStatus)
		adminTasks.POST("/:type/run", tasksController.RunTask)
	}

	return router
}
