package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"

	"github.com/Masterminds/squirrel"
)

// downloadColumns matches the scan order in scanDownload.
var downloadColumns = []string{
	consts.QDLID,
	consts.QDLURL,
	consts.QDLTitle,
	consts.QDLAuthor,
	consts.QDLThumb,
	consts.QDLDuration,
	consts.QDLType,
	consts.QDLContainer,
	consts.QDLDownloadSections,
	consts.QDLDownloadPath,
	consts.QDLWebsite,
	consts.QDLPlaylistTitle,
	consts.QDLFormat,
	consts.QDLAllFormats,
	consts.QDLAudioPrefs,
	consts.QDLFilenameTemplate,
	consts.QDLExtraCommands,
	consts.QDLStatus,
	consts.QDLStartTime,
	consts.QDLLogID,
	consts.QDLCreatedAt,
	consts.QDLUpdatedAt,
}

// DownloadStore holds a pointer to the sql.DB.
type DownloadStore struct {
	DB *sql.DB
}

// GetDownloadStore returns a download store instance with injected database.
func GetDownloadStore(db *sql.DB) *DownloadStore {
	return &DownloadStore{
		DB: db,
	}
}

// GetDB returns the database.
func (ds *DownloadStore) GetDB() *sql.DB {
	return ds.DB
}

// Insert adds a download item, returning its ID.
//
// An item with a non-zero ID keeps that ID, which lets a deleted item be restored as it was.
func (ds *DownloadStore) Insert(ctx context.Context, d *models.DownloadItem) (int64, error) {
	return insertDownload(ctx, ds.DB, d)
}

// insertDownload runs the download insert on db, which may be a transaction.
func insertDownload(ctx context.Context, db squirrel.BaseRunner, d *models.DownloadItem) (int64, error) {
	if d == nil {
		return 0, errors.New("download item passed in nil")
	}
	if d.URL == "" {
		return 0, errors.New("must enter a url for download item")
	}

	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	values, err := downloadValueMap(d)
	if err != nil {
		return 0, err
	}
	if d.ID != 0 {
		values[consts.QDLID] = d.ID
	}
	values[consts.QDLCreatedAt] = d.CreatedAt

	query := squirrel.
		Insert(consts.DBDownloads).
		SetMap(values).
		RunWith(db)

	result, err := query.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert download %q: %w", d.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID for download %q: %w", d.URL, err)
	}
	d.ID = id
	return id, nil
}

// Update writes every field of the download item.
func (ds *DownloadStore) Update(ctx context.Context, d *models.DownloadItem) error {
	if d == nil {
		return errors.New("download item passed in nil")
	}
	d.UpdatedAt = time.Now()

	values, err := downloadValueMap(d)
	if err != nil {
		return err
	}

	query := squirrel.
		Update(consts.DBDownloads).
		SetMap(values).
		Where(squirrel.Eq{consts.QDLID: d.ID}).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to update download %d: %w", d.ID, err)
	}
	return nil
}

// SetStatus sets the status of every listed download in one transaction.
func (ds *DownloadStore) SetStatus(ctx context.Context, ids []int64, status models.DownloadStatus) (err error) {
	if len(ids) == 0 {
		return nil
	}

	tx, err := ds.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnErr(tx, &err, fmt.Sprintf("status %q on %d downloads", status, len(ids)))

	query := squirrel.
		Update(consts.DBDownloads).
		Set(consts.QDLStatus, status).
		Set(consts.QDLUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QDLID: ids}).
		RunWith(tx)

	if _, err = query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to set status %q: %w", status, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a download item by ID.
func (ds *DownloadStore) Delete(ctx context.Context, id int64) error {
	query := squirrel.
		Delete(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLID: id}).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to delete download %d: %w", id, err)
	}
	return nil
}

// DeleteAllWithIDs removes every listed download in one transaction.
func (ds *DownloadStore) DeleteAllWithIDs(ctx context.Context, ids []int64) (err error) {
	if len(ids) == 0 {
		return nil
	}

	tx, err := ds.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnErr(tx, &err, fmt.Sprintf("deleting %d downloads", len(ids)))

	query := squirrel.
		Delete(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLID: ids}).
		RunWith(tx)

	if _, err = query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to delete downloads: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetItemByID returns the download item with the given ID.
func (ds *DownloadStore) GetItemByID(ctx context.Context, id int64) (d *models.DownloadItem, hasRows bool, err error) {
	query := squirrel.
		Select(downloadColumns...).
		From(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLID: id}).
		RunWith(ds.DB)

	d, err = scanDownload(query.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query download %d: %w", id, err)
	}
	return d, true, nil
}

// GetByStatus returns downloads with any of the statuses, newest first.
//
// A zero limit returns every row.
func (ds *DownloadStore) GetByStatus(ctx context.Context, statuses []models.DownloadStatus, limit, offset uint64) ([]*models.DownloadItem, error) {
	query := squirrel.
		Select(downloadColumns...).
		From(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLStatus: statusStrings(statuses)}).
		OrderBy(consts.QDLID + " DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	rows, err := query.RunWith(ds.DB).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads by status: %w", err)
	}
	defer rows.Close()

	var items []*models.DownloadItem
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetTotalSize counts downloads with any of the statuses.
func (ds *DownloadStore) GetTotalSize(ctx context.Context, statuses []models.DownloadStatus) (int, error) {
	query := squirrel.
		Select("COUNT(*)").
		From(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLStatus: statusStrings(statuses)}).
		RunWith(ds.DB)

	var total int
	if err := query.QueryRowContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}
	return total, nil
}

// GetItemIDsNotPresentIn returns IDs of downloads with any of the statuses, excluding ids.
func (ds *DownloadStore) GetItemIDsNotPresentIn(ctx context.Context, ids []int64, statuses []models.DownloadStatus) ([]int64, error) {
	query := squirrel.
		Select(consts.QDLID).
		From(consts.DBDownloads).
		Where(squirrel.Eq{consts.QDLStatus: statusStrings(statuses)}).
		OrderBy(consts.QDLID + " DESC")

	if len(ids) > 0 {
		query = query.Where(squirrel.NotEq{consts.QDLID: ids})
	}

	rows, err := query.RunWith(ds.DB).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query download IDs: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan download ID: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetItemIDsIn returns those of ids whose download has any of the statuses.
func (ds *DownloadStore) GetItemIDsIn(ctx context.Context, ids []int64, statuses []models.DownloadStatus) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := squirrel.
		Select(consts.QDLID).
		From(consts.DBDownloads).
		Where(squirrel.Eq{
			consts.QDLID:     ids,
			consts.QDLStatus: statusStrings(statuses),
		}).
		OrderBy(consts.QDLID + " DESC").
		RunWith(ds.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query download IDs: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan download ID: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ******************************** Private ********************************

// downloadValueMap returns the column values of d, excluding ID and creation time.
func downloadValueMap(d *models.DownloadItem) (map[string]any, error) {
	owner := fmt.Sprintf("download %q", d.URL)

	format, err := marshalJSON(d.Format, owner)
	if err != nil {
		return nil, err
	}
	allFormats, err := marshalJSON(d.AllFormats, owner)
	if err != nil {
		return nil, err
	}
	prefs, err := marshalJSON(d.AudioPreferences, owner)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		consts.QDLURL:              d.URL,
		consts.QDLTitle:            d.Title,
		consts.QDLAuthor:           d.Author,
		consts.QDLThumb:            d.Thumb,
		consts.QDLDuration:         d.Duration,
		consts.QDLType:             string(d.Type),
		consts.QDLContainer:        d.Container,
		consts.QDLDownloadSections: d.DownloadSections,
		consts.QDLDownloadPath:     d.DownloadPath,
		consts.QDLWebsite:          d.Website,
		consts.QDLPlaylistTitle:    d.PlaylistTitle,
		consts.QDLFormat:           string(format),
		consts.QDLAllFormats:       string(allFormats),
		consts.QDLAudioPrefs:       string(prefs),
		consts.QDLFilenameTemplate: d.CustomFileNameTemplate,
		consts.QDLExtraCommands:    d.ExtraCommands,
		consts.QDLStatus:           string(d.Status),
		consts.QDLStartTime:        d.DownloadStartTime,
		consts.QDLLogID:            d.LogID,
		consts.QDLUpdatedAt:        d.UpdatedAt,
	}, nil
}

// scanDownload scans one row selected with downloadColumns.
func scanDownload(row rowScanner) (*models.DownloadItem, error) {
	var d models.DownloadItem
	var title, author, thumb, duration, container, sections, dPath sql.NullString
	var website, playlist, template, extra sql.NullString
	var format, allFormats, prefs []byte
	var dlType, status string

	if err := row.Scan(
		&d.ID,
		&d.URL,
		&title,
		&author,
		&thumb,
		&duration,
		&dlType,
		&container,
		&sections,
		&dPath,
		&website,
		&playlist,
		&format,
		&allFormats,
		&prefs,
		&template,
		&extra,
		&status,
		&d.DownloadStartTime,
		&d.LogID,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Title = title.String
	d.Author = author.String
	d.Thumb = thumb.String
	d.Duration = duration.String
	d.Type = models.DownloadType(dlType)
	d.Container = container.String
	d.DownloadSections = sections.String
	d.DownloadPath = dPath.String
	d.Website = website.String
	d.PlaylistTitle = playlist.String
	d.CustomFileNameTemplate = template.String
	d.ExtraCommands = extra.String
	d.Status = models.DownloadStatus(status)

	owner := fmt.Sprintf("download %d", d.ID)
	unmarshalJSON(format, &d.Format, owner)
	unmarshalJSON(allFormats, &d.AllFormats, owner)
	unmarshalJSON(prefs, &d.AudioPreferences, owner)

	return &d, nil
}

// statusStrings converts statuses for use in squirrel.Eq.
func statusStrings(statuses []models.DownloadStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
