package cookies_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytdlnis/internal/cookies"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/domain/errs"

	_ "github.com/mattn/go-sqlite3"
)

type wvRow struct {
	host, path, name, value string
	expiry                  int64
	secure                  int
}

// writeWebViewDB creates a Chromium-style cookie database under root/Default.
func writeWebViewDB(t *testing.T, root string, rows []wvRow) {
	t.Helper()

	dir := filepath.Join(root, "Default")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create webview dir: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, consts.WebViewCookieDBName))
	if err != nil {
		t.Fatalf("failed to open webview db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE cookies (
		host_key TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		path TEXT NOT NULL,
		expires_utc INTEGER NOT NULL,
		is_secure INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create cookies table: %v", err)
	}

	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO cookies (host_key, name, value, path, expires_utc, is_secure) VALUES (?, ?, ?, ?, ?, ?)`,
			r.host, r.name, r.value, r.path, r.expiry, r.secure,
		); err != nil {
			t.Fatalf("failed to insert cookie row: %v", err)
		}
	}
}

// TestGetCookiesFromDBFiltersHost checks only rows whose host contains the URL host are returned ------------------------------
func TestGetCookiesFromDBFiltersHost(t *testing.T) {
	root := t.TempDir()
	writeWebViewDB(t, root, []wvRow{
		{host: ".youtube.com", path: "/", name: "SID", value: "abc", secure: 1},
		{host: "youtube.com", path: "/", name: "PREF", value: "f1"},
		{host: ".google.com", path: "/", name: "NID", value: "zzz"},
	})

	got, err := cookies.GetCookiesFromDB(context.Background(), root, "https://youtube.com/watch?v=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != ".youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], ".youtube.com\t") {
		t.Fatalf("expected host to be dot-normalized, got %q", lines[1])
	}
	if strings.Contains(got, "google") {
		t.Fatalf("expected foreign host to be filtered, got %q", got)
	}
}

// TestGetCookiesFromDBErrors checks the missing and empty database sentinels ------------------------------------------------
func TestGetCookiesFromDBErrors(t *testing.T) {
	ctx := context.Background()

	_, err := cookies.GetCookiesFromDB(ctx, t.TempDir(), "https://youtube.com")
	if !errors.Is(err, errs.ErrCookieDBNotFound) {
		t.Fatalf("expected ErrCookieDBNotFound, got %v", err)
	}

	root := t.TempDir()
	writeWebViewDB(t, root, nil)
	_, err = cookies.GetCookiesFromDB(ctx, root, "https://youtube.com")
	if !errors.Is(err, errs.ErrNoCookies) {
		t.Fatalf("expected ErrNoCookies, got %v", err)
	}
}
