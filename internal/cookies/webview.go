package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/domain/errs"
	"ytdlnis/internal/utils/logging"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// errFound stops the directory walk early.
var errFound = errors.New("found")

// FindWebViewDB returns the first regular file named "Cookies" under root.
func FindWebViewDB(root string) (string, error) {
	if root == "" {
		return "", errs.ErrCookieDBNotFound
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.D(3, "Skipping unreadable path %q: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == consts.WebViewCookieDBName {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("%w: %v", errs.ErrCookieDBNotFound, err)
	}
	if found == "" {
		return "", errs.ErrCookieDBNotFound
	}
	return found, nil
}

// GetCookiesFromDB reads the embedded browser's cookie database under root and returns
// the Netscape lines of every cookie whose host contains the URL's host.
//
// The database is opened read-only. Returns errs.ErrCookieDBNotFound when no database
// exists and errs.ErrNoCookies when its cookie table is empty.
func GetCookiesFromDB(ctx context.Context, root, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	requiredHost := u.Hostname()
	if requiredHost == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	dbPath, err := FindWebViewDB(root)
	if err != nil {
		return "", err
	}
	logging.D(2, "Reading WebView cookies from %q", dbPath)

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open cookie database %q: %w", dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.E("Failed to close cookie database %q: %v", dbPath, err)
		}
	}()

	var count int
	countQuery := squirrel.
		Select("COUNT(*)").
		From(consts.WebViewCookieTable).
		RunWith(db)
	if err := countQuery.QueryRowContext(ctx).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count cookies in %q: %w", dbPath, err)
	}
	if count == 0 {
		return "", errs.ErrNoCookies
	}

	query := squirrel.
		Select(consts.WVHost, consts.WVExpiry, consts.WVPath, consts.WVName, consts.WVValue, consts.WVSecure).
		From(consts.WebViewCookieTable).
		RunWith(db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to query cookies in %q: %w", dbPath, err)
	}
	defer rows.Close()

	var b strings.Builder
	matched := 0
	for rows.Next() {
		var (
			host, path, name, value string
			expiry                  int64
			secure                  int
		)
		if err := rows.Scan(&host, &expiry, &path, &name, &value, &secure); err != nil {
			return "", fmt.Errorf("failed to scan cookie row: %w", err)
		}

		host = normalizeHost(host)
		if !strings.Contains(host, requiredHost) {
			continue
		}

		b.WriteString(FormatLine(host, path, secure == 1, ChromeExpiryToUnix(expiry), name, value))
		b.WriteByte('\n')
		matched++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	logging.D(1, "Matched %d of %d WebView cookies for host %q", matched, count, requiredHost)
	return b.String(), nil
}
