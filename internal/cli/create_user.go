package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/database"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// CreateUserCommand creates a user account from the command line,
// useful for bootstrapping without the registration endpoint.
type CreateUserCommand struct {
	Username     string
	Email        string
	Password     string
	Admin        bool
	DatabasePath string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required, min 12 characters)")
	fs.BoolVar(&cmd.Admin, "admin", false, "Grant the admin role")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "The first account created always gets the admin role.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username alice -email alice@example.com -password 'a long passphrase'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("-username, -email and -password are required")
	}

	return nil
}

// Run executes the create-user command
func (cmd *CreateUserCommand) Run() error {
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

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	var role entities.UserRole
	if cmd.Admin {
		role = entities.UserRoleAdmin
	}

	user, err := service.CreateUser(cmd.Username, cmd.Email, cmd.Password, role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("✅ Created user %s (id=%d, role=%s)\n", user.Username, user.ID, user.Role)
	return nil
}
