package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/database/bookmarks"
	"github.com/mrlokans/bookmarks/internal/database/tags"
	"github.com/mrlokans/bookmarks/internal/database/tokens"
	transferdb "github.com/mrlokans/bookmarks/internal/database/transfer"
	"github.com/mrlokans/bookmarks/internal/http"
	"github.com/mrlokans/bookmarks/internal/tasks"
	"github.com/mrlokans/bookmarks/internal/transfer"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookmarkStore implementations
var _ http.BookmarkStore = (*bookmarks.Repository)(nil)

// TagStore implementations
var _ http.TagStore = (*tags.Repository)(nil)

// TokenStore implementations
var _ http.TokenStore = (*tokens.Repository)(nil)

// =============================================================================
// CSV Import/Export
// =============================================================================

// transfer.Store implementations
var _ transfer.Store = (*transferdb.Store)(nil)

// =============================================================================
// Maintenance Tasks
// =============================================================================

// OrphanTagsCleaner implementations
var _ tasks.OrphanTagsCleaner = (*tags.Repository)(nil)

// AuditLogCleaner implementations
var _ tasks.AuditLogCleaner = (*audit.Service)(nil)
