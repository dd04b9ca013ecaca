package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ytdlnis/internal/cookies"
	"ytdlnis/internal/database"
	"ytdlnis/internal/models"
	"ytdlnis/internal/repo"
	"ytdlnis/internal/scraper"
)

const page = `<!DOCTYPE html>
<html><head>
<title>Fallback</title>
<meta property="og:title" content="Great Song">
<meta property="og:image" content="https://img.example.com/t.jpg">
<meta property="og:site_name" content="ExampleTube">
<meta itemprop="duration" content="PT3M21S">
<meta itemprop="uploadDate" content="2024-03-01">
</head><body>
<span itemprop="author"><link itemprop="name" content="The Band"></span>
</body></html>`

// TestFetchResult checks metadata extraction, cookie sending and persistence ---------------------------------------------
func TestFetchResult(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("SID"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("bad server URL: %v", err)
	}

	dir := t.TempDir()
	cookieFile := filepath.Join(dir, "cookies.txt")
	line := cookies.FormatLine(u.Hostname(), "/", false, time.Now().Add(time.Hour).Unix(), "SID", "secret")
	if err := os.WriteFile(cookieFile, []byte(line+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write cookie file: %v", err)
	}

	dbc, err := database.InitDB(filepath.Join(dir, "ytdlnis.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	defer dbc.Close()
	results := repo.InitStores(dbc.DB).ResultStore()

	s := scraper.New(results, cookieFile)
	r, err := s.FetchResult(context.Background(), srv.URL+"/watch")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if r.Title != "Great Song" || r.Author != "The Band" || r.Website != "ExampleTube" {
		t.Fatalf("unexpected metadata %+v", r)
	}
	if r.Duration != "3:21" || r.Thumb != "https://img.example.com/t.jpg" {
		t.Fatalf("unexpected duration/thumb %q / %q", r.Duration, r.Thumb)
	}
	if r.UploadDate.Format("2006-01-02") != "2024-03-01" {
		t.Fatalf("unexpected upload date %v", r.UploadDate)
	}
	if gotCookie != "secret" {
		t.Fatalf("expected stored cookie to be sent, got %q", gotCookie)
	}

	// A second fetch updates the same row and keeps cached formats.
	r.Formats = []models.Format{{FormatID: "140", FormatNote: "audio"}}
	if err := results.Update(context.Background(), r); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	again, err := s.FetchResult(context.Background(), srv.URL+"/watch")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if again.ID != r.ID || len(again.Formats) != 1 {
		t.Fatalf("expected same row with formats kept, got id %d formats %v", again.ID, again.Formats)
	}
}

// TestFetchResultBadURL checks hostless URLs are rejected -----------------------------------------------------------------
func TestFetchResultBadURL(t *testing.T) {
	if _, err := scraper.New(nil, "").FetchResult(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for hostless URL")
	}
}
