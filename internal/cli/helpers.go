// Package cli implements the command line subcommands.
package cli

import (
	"fmt"

	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/database"
	"github.com/mrlokans/bookmarks/internal/database/users"
)

// resolveUserID maps a username to its account ID. An empty username falls
// back to the default account used when authentication is disabled.
func resolveUserID(db *database.Database, username string) (uint, error) {
	if username == "" {
		return auth.DefaultUserID, nil
	}

	repo := users.NewRepository(db.DB)
	user, err := repo.GetUserByUsername(username)
	if err != nil {
		return 0, fmt.Errorf("failed to look up user %q: %w", username, err)
	}
	if user == nil {
		return 0, fmt.Errorf("user %q not found", username)
	}

	return user.ID, nil
}
