package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"

	"github.com/Masterminds/squirrel"
)

// CookieStore holds a pointer to the sql.DB.
type CookieStore struct {
	DB *sql.DB
}

// GetCookieStore returns a cookie store instance with injected database.
func GetCookieStore(db *sql.DB) *CookieStore {
	return &CookieStore{
		DB: db,
	}
}

// GetDB returns the database.
func (cs *CookieStore) GetDB() *sql.DB {
	return cs.DB
}

// GetAll returns every cookie item in insertion order.
func (cs *CookieStore) GetAll(ctx context.Context) ([]*models.CookieItem, error) {
	query := squirrel.
		Select(consts.QCookieID, consts.QCookieURL, consts.QCookieContent).
		From(consts.DBCookies).
		OrderBy(consts.QCookieID + " ASC").
		RunWith(cs.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var items []*models.CookieItem
	for rows.Next() {
		var c models.CookieItem
		if err := rows.Scan(&c.ID, &c.URL, &c.Content); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}

// GetByURL returns the first cookie item with the given URL.
func (cs *CookieStore) GetByURL(ctx context.Context, url string) (c *models.CookieItem, hasRows bool, err error) {
	query := squirrel.
		Select(consts.QCookieID, consts.QCookieURL, consts.QCookieContent).
		From(consts.DBCookies).
		Where(squirrel.Eq{consts.QCookieURL: url}).
		OrderBy(consts.QCookieID + " ASC").
		Limit(1).
		RunWith(cs.DB)

	var item models.CookieItem
	if err := query.QueryRowContext(ctx).Scan(&item.ID, &item.URL, &item.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query cookie for URL %q: %w", url, err)
	}
	return &item, true, nil
}

// Insert adds a cookie item, returning its ID.
func (cs *CookieStore) Insert(ctx context.Context, c *models.CookieItem) (int64, error) {
	if c == nil {
		return 0, errors.New("cookie item passed in nil")
	}

	query := squirrel.
		Insert(consts.DBCookies).
		Columns(consts.QCookieURL, consts.QCookieContent).
		Values(c.URL, c.Content).
		RunWith(cs.DB)

	result, err := query.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cookie %q: %w", c.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID for cookie %q: %w", c.URL, err)
	}
	c.ID = id
	return id, nil
}

// Update rewrites the URL and content of a cookie item.
func (cs *CookieStore) Update(ctx context.Context, c *models.CookieItem) error {
	if c == nil {
		return errors.New("cookie item passed in nil")
	}

	query := squirrel.
		Update(consts.DBCookies).
		Set(consts.QCookieURL, c.URL).
		Set(consts.QCookieContent, c.Content).
		Where(squirrel.Eq{consts.QCookieID: c.ID}).
		RunWith(cs.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to update cookie %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes a cookie item by ID.
func (cs *CookieStore) Delete(ctx context.Context, id int64) error {
	query := squirrel.
		Delete(consts.DBCookies).
		Where(squirrel.Eq{consts.QCookieID: id}).
		RunWith(cs.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to delete cookie %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every cookie item.
func (cs *CookieStore) DeleteAll(ctx context.Context) error {
	query := squirrel.
		Delete(consts.DBCookies).
		RunWith(cs.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to delete cookies: %w", err)
	}
	return nil
}
