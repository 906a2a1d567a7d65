package main

import (
	"fmt"
	"os"

	"stockroom/internal/catalogsync"
	"stockroom/internal/config"
	"stockroom/internal/database"
	"stockroom/internal/entrypoint"
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
	case "import-file":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Error: import-file requires a spreadsheet path")
			os.Exit(1)
		}
		if err := runFileImport(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runFileImport imports a product spreadsheet into the catalog without
// starting the server.
func runFileImport(path string) error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	coordinator := catalogsync.NewCoordinator(db, nil)
	run, err := coordinator.ImportFile(path)
	if err != nil {
		return err
	}
	if !run.Success {
		return fmt.Errorf("import failed: %s", run.Error)
	}

	fmt.Println(run.Message)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-file  Import products from a spreadsheet (.xlsx/.xls)\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is taken from environment variables (DATABASE_PATH, FEED_URL, ...).\n")
}
