// Package contracts defines interfaces that decouple the application layer from storage implementations.
package contracts

import (
	"context"
	"database/sql"
	"time"

	"ytdlnis/internal/models"
)

// Store allows access to the main store repo methods.
type Store interface {
	CookieStore() CookieStore
	DownloadStore() DownloadStore
	ResultStore() ResultStore
}

// CookieStore allows access to cookie repo methods.
type CookieStore interface {
	GetDB() *sql.DB

	GetAll(ctx context.Context) ([]*models.CookieItem, error)
	GetByURL(ctx context.Context, url string) (c *models.CookieItem, hasRows bool, err error)
	Insert(ctx context.Context, c *models.CookieItem) (int64, error)
	Update(ctx context.Context, c *models.CookieItem) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// DownloadStore allows access to download repo methods.
type DownloadStore interface {
	GetDB() *sql.DB

	// Add operations.
	Insert(ctx context.Context, d *models.DownloadItem) (int64, error)

	// Update operations.
	Update(ctx context.Context, d *models.DownloadItem) error
	SetStatus(ctx context.Context, ids []int64, status models.DownloadStatus) error

	// Delete operations.
	Delete(ctx context.Context, id int64) error
	DeleteAllWithIDs(ctx context.Context, ids []int64) error

	// 'Get' operations.
	GetItemByID(ctx context.Context, id int64) (d *models.DownloadItem, hasRows bool, err error)
	GetByStatus(ctx context.Context, statuses []models.DownloadStatus, limit, offset uint64) ([]*models.DownloadItem, error)
	GetTotalSize(ctx context.Context, statuses []models.DownloadStatus) (int, error)
	GetItemIDsNotPresentIn(ctx context.Context, ids []int64, statuses []models.DownloadStatus) ([]int64, error)
	GetItemIDsIn(ctx context.Context, ids []int64, statuses []models.DownloadStatus) ([]int64, error)

	// Undo operations.
	PushUndo(ctx context.Context, entry *models.UndoEntry) error
	RestoreUndo(ctx context.Context, token string, notBefore time.Time) (item *models.DownloadItem, hasRows bool, err error)
	PruneUndo(ctx context.Context, before time.Time) (int64, error)
}

// ResultStore allows access to result repo methods.
type ResultStore interface {
	GetDB() *sql.DB

	Insert(ctx context.Context, r *models.ResultItem) (int64, error)
	Update(ctx context.Context, r *models.ResultItem) error
	GetByID(ctx context.Context, id int64) (r *models.ResultItem, hasRows bool, err error)
	GetByURL(ctx context.Context, url string) (r *models.ResultItem, hasRows bool, err error)
}
