// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── bookmarks/       # Bookmark CRUD, listing, filtering
//	├── tags/            # Tag management and associations
//	├── tokens/          # API token persistence
//	├── users/           # User accounts and login tracking
//	├── audit/           # Audit trail persistence
//	└── transfer/        # Composite store for CSV import/export
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./bookmarks.db")
//
//	// Create domain-specific repositories
//	bookmarkRepo := bookmarks.NewRepository(db.DB)
//	tagRepo := tags.NewRepository(db.DB)
//
//	// Use repositories
//	bookmark, err := bookmarkRepo.GetBookmarkByID(123, userID)
//	tags, err := tagRepo.GetTagsForUser(userID)
//
// # Interface Implementations
//
// Each sub-package implements specific interfaces:
//
//   - bookmarks.Repository: implements http.BookmarkStore
//   - tags.Repository: implements http.TagStore and tasks.OrphanTagsCleaner
//   - tokens.Repository: implements http.TokenStore
//   - transfer.Store: implements transfer.Store for the reconciler
//
// # Adding a New Domain
//
// To add a new domain (e.g., collections):
//
//  1. Create a new sub-package: internal/database/collections/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
