// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Data Access Interfaces
//
//   - BookmarkStore: Bookmark CRUD and listing (internal/http/bookmarks.go)
//   - TagStore: Tag management (internal/http/tags.go)
//   - TokenStore: API token listing (internal/http/tokens.go)
//   - transfer.Store: Persistence contract for CSV import/export (internal/transfer/reconciler.go)
//
// ## Maintenance Interfaces
//
//   - tasks.AuditLogCleaner: Audit log retention (internal/tasks/cleanup_audit.go)
//   - tasks.OrphanTagsCleaner: Orphan tag removal (internal/tasks/cleanup_tags.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., collections):
//
//  1. Create sub-package: internal/database/collections/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ CollectionStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
