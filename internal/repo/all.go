// Package repo is used for performing database repository operations.
package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/utils/logging"
)

// Store holds the database variable and sub-stores like CookieStore etc.
type Store struct {
	db            *sql.DB
	cookieStore   *CookieStore
	downloadStore *DownloadStore
	resultStore   *ResultStore
}

// InitStores injects databases into the store methods.
func InitStores(db *sql.DB) *Store {
	return &Store{
		db:            db,
		cookieStore:   GetCookieStore(db),
		downloadStore: GetDownloadStore(db),
		resultStore:   GetResultStore(db),
	}
}

// CookieStore with pointer receiver.
func (s *Store) CookieStore() contracts.CookieStore {
	return s.cookieStore
}

// DownloadStore with pointer receiver.
func (s *Store) DownloadStore() contracts.DownloadStore {
	return s.downloadStore
}

// ResultStore with pointer receiver.
func (s *Store) ResultStore() contracts.ResultStore {
	return s.resultStore
}

// ******************************** Private ***************************************************************************************

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// marshalJSON marshals v for a JSON column, naming the owner in errors.
func marshalJSON(v any, owner string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal failed for %s: %w", owner, err)
	}
	return b, nil
}

// unmarshalJSON fills v from a JSON column, ignoring empty columns.
func unmarshalJSON(b []byte, v any, owner string) {
	if len(b) == 0 {
		return
	}
	if err := json.Unmarshal(b, v); err != nil {
		logging.E("Failed to unmarshal JSON column for %s: %v", owner, err)
	}
}

// rollbackOnErr rolls back tx if err is set or a panic is in flight.
func rollbackOnErr(tx *sql.Tx, err *error, what string) {
	if p := recover(); p != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.E("Panic rollback failed for %s: %v", what, rbErr)
		}
		panic(p)
	} else if *err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.E("Rollback failed for %s (original error: %v): %v", what, *err, rbErr)
		}
	}
}
