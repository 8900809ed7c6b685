// Package commands implements the postboard command line.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"postboard/app/auth"
	"postboard/app/config"
	"postboard/app/repositories"
	"postboard/app/seed"
	"postboard/app/services"
)

const Version = "1.0.0"

var (
	stdout     io.Writer = os.Stdout
	stdin      io.Reader = os.Stdin
	loadConfig           = config.Load
)

// HandleCommand runs one subcommand and returns the process exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "help":
		printHelp()
		return 0
	case "version":
		fmt.Fprintf(stdout, "postboard version %s\n", Version)
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to load configuration: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		return serve(cfg)
	case "clean":
		return clean(cfg.DBPath)
	case "init":
		return initDb(cfg.DBPath)
	case "backup":
		return backup(cfg.DBPath, filepath.Join(filepath.Dir(cfg.DBPath), "backups"))
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(stdout, "Error: backup file path required for restore")
			return 1
		}
		return restore(cfg.DBPath, args[1])
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		fs.SetOutput(stdout)
		users := fs.Int("users", 10, "number of fake users to create")
		if err := fs.Parse(args[1:]); err != nil {
			return 1
		}
		return seedDb(cfg, *users)
	default:
		fmt.Fprintf(stdout, "Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}
}

func printHelp() {
	helpText := `Usage: postboard <command> [options]

Commands:
  serve                 Run the REST and GraphQL server
  init                  Initialize a new empty database
  clean                 Delete the database
  backup                Create a backup of the database
  restore <file>        Restore database from backup
  seed [--users N]      Create the admin account and sample content
  version               Show version information
  help                  Display this help message
`
	fmt.Fprintln(stdout, helpText)
}

func confirm(prompt string) bool {
	fmt.Fprint(stdout, prompt+" [y/N] ")
	var response string
	fmt.Fscanln(stdin, &response)
	return response == "y" || response == "Y"
}

// clean removes the database.
func clean(dbPath string) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "Database is already clean (does not exist)")
		return 0
	}
	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(stdout, "Operation cancelled")
		return 1
	}
	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Fprintf(stdout, "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Database cleaned successfully")
	return 0
}

// initDb creates an empty database.
func initDb(dbPath string) int {
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(stdout, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create database directory: %v\n", err)
		return 1
	}
	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer store.Close()

	fmt.Fprintln(stdout, "Database initialized successfully")
	return 0
}

// backup writes a full backup into backupDir.
func backup(dbPath, backupDir string) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "No database exists to backup")
		return 1
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create backup directory: %v\n", err)
		return 1
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := store.Backup(f); err != nil {
		fmt.Fprintf(stdout, "Failed to backup database: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore replaces the database with the contents of backupFile.
func restore(dbPath, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Fprintf(stdout, "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stdout, "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(stdout, "Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(stdout, "Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Fprintf(stdout, "Failed to remove existing database: %v\n", err)
			return 1
		}
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.Load(f)
	}()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Database restored successfully")
	return 0
}

// seedDb creates the admin account and n fake users with content.
func seedDb(cfg *config.Config, n int) int {
	store, err := repositories.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	repos := repositories.NewRepositories(store)
	svc := services.New(repos, auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL, repos.Sessions))
	sum, err := seed.Run(context.Background(), svc, seed.Options{Users: n})
	if err != nil {
		fmt.Fprintf(stdout, "Failed to seed database: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Seeded %d users and %d posts. Admin login: %s / %s\n",
		sum.Users, sum.Posts, seed.AdminEmail, seed.AdminPassword)
	return 0
}
