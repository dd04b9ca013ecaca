package database

import (
	"database/sql"
	"fmt"
)

// initCookiesTable initializes the cookies table.
func initCookiesTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        content TEXT NOT NULL DEFAULT ''
    );
    CREATE INDEX IF NOT EXISTS idx_cookies_url ON cookies(url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create cookies table: %w", err)
	}
	return nil
}

// initDownloadsTable initializes the downloads table.
func initDownloadsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        title TEXT,
        author TEXT,
        thumb TEXT,
        duration TEXT,
        type TEXT NOT NULL,
        container TEXT,
        download_sections TEXT,
        download_path TEXT,
        website TEXT,
        playlist_title TEXT,
        format JSON,
        all_formats JSON,
        audio_preferences JSON,
        custom_filename_template TEXT,
        extra_commands TEXT,
        status TEXT NOT NULL,
        download_start_time INTEGER DEFAULT 0,
        log_id INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_downloads_status ON downloads(status);
    CREATE INDEX IF NOT EXISTS idx_downloads_url ON downloads(url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create downloads table: %w", err)
	}
	return nil
}

// initResultsTable initializes the results table.
func initResultsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        title TEXT,
        author TEXT,
        duration TEXT,
        thumb TEXT,
        website TEXT,
        playlist_title TEXT,
        formats JSON,
        chapters JSON,
        upload_date TIMESTAMP,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_results_url ON results(url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}
	return nil
}

// initUndoTable initializes the table holding swiped-away downloads.
func initUndoTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS undo (
        token TEXT PRIMARY KEY,
        item JSON NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create undo table: %w", err)
	}
	return nil
}
