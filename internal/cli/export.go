package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/database"
	"github.com/mrlokans/bookmarks/internal/database/bookmarks"
	"github.com/mrlokans/bookmarks/internal/database/tags"
	transferdb "github.com/mrlokans/bookmarks/internal/database/transfer"
	"github.com/mrlokans/bookmarks/internal/transfer"
)

// ExportCommand exports bookmarks or tags to a CSV file.
type ExportCommand struct {
	Kind         string // "bookmarks" or "tags"
	OutputPath   string
	DatabasePath string
	Username     string
}

// NewExportBookmarksCommand creates an export command for bookmarks.
func NewExportBookmarksCommand() *ExportCommand {
	return &ExportCommand{Kind: "bookmarks"}
}

// NewExportTagsCommand creates an export command for tags.
func NewExportTagsCommand() *ExportCommand {
	return &ExportCommand{Kind: "tags"}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	name := fmt.Sprintf("export-%s", cmd.Kind)
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "output", "", "Path to write the CSV to (defaults to stdout)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Username, "user", "", "Username to export for (defaults to the single-user account)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], name)
		fmt.Fprintf(os.Stderr, "Export %s from the local database as CSV.\n\n", cmd.Kind)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Export to a file:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -output %s.csv\n\n", os.Args[0], name, cmd.Kind)
		fmt.Fprintf(os.Stderr, "  # Export to stdout:\n")
		fmt.Fprintf(os.Stderr, "  %s %s\n", os.Args[0], name)
	}

	return fs.Parse(args)
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	userID, err := resolveUserID(db, cmd.Username)
	if err != nil {
		return err
	}

	store := transferdb.NewStore(bookmarks.NewRepository(db.DB), tags.NewRepository(db.DB))
	service := transfer.NewService(store)

	var csvText string
	switch cmd.Kind {
	case "tags":
		csvText, err = service.ExportTags(userID)
	default:
		csvText, err = service.ExportBookmarks(userID)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if cmd.OutputPath == "" {
		fmt.Print(csvText)
		return nil
	}

	if err := os.WriteFile(cmd.OutputPath, []byte(csvText), 0o644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Exported %s to %s\n", cmd.Kind, cmd.OutputPath)
	return nil
}
