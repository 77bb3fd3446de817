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

// ImportCommand imports bookmarks or tags from a CSV file.
type ImportCommand struct {
	Kind         string // "bookmarks" or "tags"
	FilePath     string
	DatabasePath string
	Username     string
	Mode         string
	DryRun       bool
	Verbose      bool
}

// NewImportBookmarksCommand creates an import command for bookmarks.
func NewImportBookmarksCommand() *ImportCommand {
	return &ImportCommand{Kind: "bookmarks"}
}

// NewImportTagsCommand creates an import command for tags.
func NewImportTagsCommand() *ImportCommand {
	return &ImportCommand{Kind: "tags"}
}

// ParseFlags parses command line flags
func (cmd *ImportCommand) ParseFlags(args []string) error {
	name := fmt.Sprintf("import-%s", cmd.Kind)
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Username, "user", "", "Username to import for (defaults to the single-user account)")
	fs.StringVar(&cmd.Mode, "mode", "skip", "Conflict mode: skip, update"+cmd.duplicateModeHint())
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Preview the import without making changes")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], name)
		fmt.Fprintf(os.Stderr, "Import %s from a CSV file into the local database.\n\n", cmd.Kind)
		fmt.Fprintf(os.Stderr, "Rows matching existing records are skipped by default. Use -mode update\n")
		fmt.Fprintf(os.Stderr, "to overwrite matching records with the CSV contents.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview an import:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -file %s.csv -dry-run\n\n", os.Args[0], name, cmd.Kind)
		fmt.Fprintf(os.Stderr, "  # Import, updating records that already exist:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -file %s.csv -mode update\n", os.Args[0], name, cmd.Kind)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	return nil
}

func (cmd *ImportCommand) duplicateModeHint() string {
	if cmd.Kind == "bookmarks" {
		return ", duplicate"
	}
	return ""
}

// Run executes the import command
func (cmd *ImportCommand) Run() error {
	fmt.Printf("📥 CSV Import (%s)\n", cmd.Kind)
	fmt.Println("==================")

	if cmd.DryRun {
		fmt.Println("🔍 DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read CSV file: %w", err)
	}

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

	opts := transfer.Options{
		Mode:    transfer.Mode(cmd.Mode),
		Preview: cmd.DryRun,
	}

	var result *transfer.Result
	switch cmd.Kind {
	case "tags":
		result, err = service.ImportTags(userID, string(data), opts)
	default:
		result, err = service.ImportBookmarks(userID, string(data), opts)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.DryRun {
		fmt.Println("=== Preview ===")
		fmt.Printf("➕ Would import: %d\n", len(result.Preview.ToImport))
		fmt.Printf("🔄 Would update: %d\n", len(result.Preview.ToUpdate))
		fmt.Printf("⏭️  Would skip:   %d\n", len(result.Preview.ToSkip))

		if cmd.Verbose {
			for _, row := range result.Preview.ToImport {
				fmt.Printf("  + %s (%s)\n", row.Path, row.Title)
			}
			for _, row := range result.Preview.ToUpdate {
				fmt.Printf("  ~ %s (%s)\n", row.Path, row.Title)
			}
			for _, row := range result.Preview.ToSkip {
				fmt.Printf("  - %s: %s\n", row.Path, row.Reason)
			}
		}
	} else {
		fmt.Println("=== Import Summary ===")
		fmt.Printf("➕ Imported: %d\n", result.Imported)
		fmt.Printf("🔄 Updated:  %d\n", result.Updated)
		fmt.Printf("⏭️  Skipped:  %d\n", result.Skipped)
		if len(result.TagsCreated) > 0 {
			fmt.Printf("🏷️  Tags created: %d\n", len(result.TagsCreated))
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n⚠️  %d rows failed:\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Printf("  ❌ %s\n", msg)
		}
	}

	if !cmd.DryRun {
		fmt.Println("\n✅ Import complete!")
	}
	return nil
}
