package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/blackjack/internal/config"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// MigrateCmd manages the SQLite schema
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" default:"1" help:"Apply pending migrations"`
	Status MigrateStatusCmd `cmd:"" help:"List applied and pending migrations"`
}

type MigrateUpCmd struct {
	DB string `help:"Path to SQLite database (default: DATA_DIR/blackjack.db)"`
}

func (cmd *MigrateUpCmd) Run(globals *Globals) error {
	db, migrator, err := openMigrator(cmd.DB, globals)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrator.MigrateUp(); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}
	fmt.Println("Migrations applied successfully!")
	return nil
}

type MigrateStatusCmd struct {
	DB string `help:"Path to SQLite database (default: DATA_DIR/blackjack.db)"`
}

func (cmd *MigrateStatusCmd) Run(globals *Globals) error {
	db, migrator, err := openMigrator(cmd.DB, globals)
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := migrator.LoadMigrations()
	if err != nil {
		return err
	}
	pending, err := migrator.Pending()
	if err != nil {
		return err
	}
	isPending := make(map[string]bool, len(pending))
	for _, m := range pending {
		isPending[m.Version] = true
	}

	for _, m := range all {
		state := "applied"
		if isPending[m.Version] {
			state = "pending"
		}
		fmt.Printf("%s  %-8s %s\n", m.Version, state, m.Description)
	}
	return nil
}

func openMigrator(dbPath string, globals *Globals) (*sql.DB, *migrations.Migrator, error) {
	level := logging.INFO
	if globals.Debug {
		level = logging.DEBUG
	}
	logger := logging.NewLogger(level)

	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		dbPath = cfg.DatabasePath()
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening database: %w", err)
	}
	return db, migrations.NewMigrator(db, migrations.Embedded(), logger), nil
}
