// Package database opens the ytdlnis SQLite database and creates its tables.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ytdlnis/internal/domain/consts"

	_ "github.com/mattn/go-sqlite3"
)

// DBControl holds the open database.
type DBControl struct {
	DB *sql.DB
}

// InitDB opens (or creates) the database at path and initializes the tables.
func InitDB(path string) (dbc *DBControl, err error) {
	var dc DBControl

	if err := os.MkdirAll(filepath.Dir(path), consts.PermsGenericDir); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dc.DB, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}
	// Single connection keeps writes serialized.
	dc.DB.SetMaxOpenConns(1)

	if err := dc.applyPragmas(); err != nil {
		dc.DB.Close()
		return nil, err
	}

	if err := dc.initTables(); err != nil {
		dc.DB.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return &dc, nil
}

// Close closes the database.
func (dc *DBControl) Close() error {
	if dc == nil || dc.DB == nil {
		return nil
	}
	return dc.DB.Close()
}

// applyPragmas sets connection pragmas.
func (dc *DBControl) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", consts.DBBusyTimeoutMS),
	}

	for _, stmt := range pragmas {
		if _, err := dc.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}

// initTables initializes the SQL tables.
func (dc *DBControl) initTables() error {
	tx, err := dc.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initCookiesTable(tx); err != nil {
		return err
	}

	if err := initDownloadsTable(tx); err != nil {
		return err
	}

	if err := initResultsTable(tx); err != nil {
		return err
	}

	if err := initUndoTable(tx); err != nil {
		return err
	}

	return tx.Commit()
}
