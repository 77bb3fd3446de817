package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookmarks/internal/cli"
	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import-bookmarks":
		runCommand(cli.NewImportBookmarksCommand(), args)

	case "import-tags":
		runCommand(cli.NewImportTagsCommand(), args)

	case "export-bookmarks":
		runCommand(cli.NewExportBookmarksCommand(), args)

	case "export-tags":
		runCommand(cli.NewExportTagsCommand(), args)

	case "create-user":
		runCommand(cli.NewCreateUserCommand(), args)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// command is the shared shape of all CLI subcommands.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func runCommand(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve             Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-bookmarks  Import bookmarks from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  import-tags       Import tags from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  export-bookmarks  Export bookmarks to CSV\n")
	fmt.Fprintf(os.Stderr, "  export-tags       Export tags to CSV\n")
	fmt.Fprintf(os.Stderr, "  create-user       Create a user account\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
