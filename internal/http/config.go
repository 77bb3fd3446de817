package http

import (
	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/database"
	"github.com/mrlokans/bookmarks/internal/tasks"
	"github.com/mrlokans/bookmarks/internal/transfer"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Stores, one interface per controller
	BookmarkStore BookmarkStore
	TagStore      TagStore
	TokenStore    TokenStore

	// CSV import/export
	TransferService *transfer.Service

	// Audit trail
	AuditService *audit.Service

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
