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

var resultColumns = []string{
	consts.QResID,
	consts.QResURL,
	consts.QResTitle,
	consts.QResAuthor,
	consts.QResDuration,
	consts.QResThumb,
	consts.QResWebsite,
	consts.QResPlaylistTitle,
	consts.QResFormats,
	consts.QResChapters,
	consts.QResUploadDate,
	consts.QResCreatedAt,
}

// ResultStore holds a pointer to the sql.DB.
type ResultStore struct {
	DB *sql.DB
}

// GetResultStore returns a result store instance with injected database.
func GetResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{
		DB: db,
	}
}

// GetDB returns the database.
func (rs *ResultStore) GetDB() *sql.DB {
	return rs.DB
}

// Insert adds a result item, returning its ID.
func (rs *ResultStore) Insert(ctx context.Context, r *models.ResultItem) (int64, error) {
	if r == nil {
		return 0, errors.New("result item passed in nil")
	}
	if r.URL == "" {
		return 0, errors.New("must enter a url for result item")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	values, err := resultValueMap(r)
	if err != nil {
		return 0, err
	}
	values[consts.QResCreatedAt] = r.CreatedAt

	query := squirrel.
		Insert(consts.DBResults).
		SetMap(values).
		RunWith(rs.DB)

	result, err := query.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result %q: %w", r.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID for result %q: %w", r.URL, err)
	}
	r.ID = id
	return id, nil
}

// Update writes every field of the result item.
func (rs *ResultStore) Update(ctx context.Context, r *models.ResultItem) error {
	if r == nil {
		return errors.New("result item passed in nil")
	}

	values, err := resultValueMap(r)
	if err != nil {
		return err
	}

	query := squirrel.
		Update(consts.DBResults).
		SetMap(values).
		Where(squirrel.Eq{consts.QResID: r.ID}).
		RunWith(rs.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to update result %d: %w", r.ID, err)
	}
	return nil
}

// GetByID returns the result item with the given ID.
func (rs *ResultStore) GetByID(ctx context.Context, id int64) (r *models.ResultItem, hasRows bool, err error) {
	query := squirrel.
		Select(resultColumns...).
		From(consts.DBResults).
		Where(squirrel.Eq{consts.QResID: id}).
		RunWith(rs.DB)

	r, err = scanResult(query.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query result %d: %w", id, err)
	}
	return r, true, nil
}

// GetByURL returns the newest result item for a URL.
func (rs *ResultStore) GetByURL(ctx context.Context, url string) (r *models.ResultItem, hasRows bool, err error) {
	query := squirrel.
		Select(resultColumns...).
		From(consts.DBResults).
		Where(squirrel.Eq{consts.QResURL: url}).
		OrderBy(consts.QResID + " DESC").
		Limit(1).
		RunWith(rs.DB)

	r, err = scanResult(query.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query result for URL %q: %w", url, err)
	}
	return r, true, nil
}

// ******************************** Private ********************************

// resultValueMap returns the column values of r, excluding ID and creation time.
func resultValueMap(r *models.ResultItem) (map[string]any, error) {
	owner := fmt.Sprintf("result %q", r.URL)

	formats, err := marshalJSON(r.Formats, owner)
	if err != nil {
		return nil, err
	}
	chapters, err := marshalJSON(r.Chapters, owner)
	if err != nil {
		return nil, err
	}

	var uploadDate any
	if !r.UploadDate.IsZero() {
		uploadDate = r.UploadDate
	}

	return map[string]any{
		consts.QResURL:           r.URL,
		consts.QResTitle:         r.Title,
		consts.QResAuthor:        r.Author,
		consts.QResDuration:      r.Duration,
		consts.QResThumb:         r.Thumb,
		consts.QResWebsite:       r.Website,
		consts.QResPlaylistTitle: r.PlaylistTitle,
		consts.QResFormats:       string(formats),
		consts.QResChapters:      string(chapters),
		consts.QResUploadDate:    uploadDate,
	}, nil
}

// scanResult scans one row selected with resultColumns.
func scanResult(row rowScanner) (*models.ResultItem, error) {
	var r models.ResultItem
	var title, author, duration, thumb, website, playlist sql.NullString
	var formats, chapters []byte
	var uploadDate sql.NullTime

	if err := row.Scan(
		&r.ID,
		&r.URL,
		&title,
		&author,
		&duration,
		&thumb,
		&website,
		&playlist,
		&formats,
		&chapters,
		&uploadDate,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Title = title.String
	r.Author = author.String
	r.Duration = duration.String
	r.Thumb = thumb.String
	r.Website = website.String
	r.PlaylistTitle = playlist.String
	if uploadDate.Valid {
		r.UploadDate = uploadDate.Time
	}

	owner := fmt.Sprintf("result %d", r.ID)
	unmarshalJSON(formats, &r.Formats, owner)
	unmarshalJSON(chapters, &r.Chapters, owner)

	return &r, nil
}
