package cookies

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"
)

// Manager keeps the cookie table and the generated cookie file in sync.
type Manager struct {
	store      contracts.CookieStore
	clip       Clipboard
	filePath   string
	webViewDir string

	// Serializes file rewrites.
	fileMu sync.Mutex
	now    func() time.Time
}

// NewManager returns a cookie manager writing the cookie file to filePath.
func NewManager(store contracts.CookieStore, clip Clipboard, filePath, webViewDir string) *Manager {
	if clip == nil {
		clip = SystemClipboard{}
	}
	return &Manager{
		store:      store,
		clip:       clip,
		filePath:   filePath,
		webViewDir: webViewDir,
		now:        time.Now,
	}
}

// FilePath returns the path of the generated cookie file.
func (m *Manager) FilePath() string {
	return m.filePath
}

// GetAll returns every cookie item in insertion order.
func (m *Manager) GetAll(ctx context.Context) ([]*models.CookieItem, error) {
	return m.store.GetAll(ctx)
}

// GetByURL returns the first cookie item stored under url.
func (m *Manager) GetByURL(ctx context.Context, url string) (*models.CookieItem, bool, error) {
	return m.store.GetByURL(ctx, url)
}

// Insert stores a cookie item and regenerates the cookie file.
func (m *Manager) Insert(ctx context.Context, item *models.CookieItem) (int64, error) {
	id, err := m.store.Insert(ctx, item)
	if err != nil {
		return 0, err
	}
	if err := m.UpdateCookiesFile(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// Update rewrites a cookie item and regenerates the cookie file.
func (m *Manager) Update(ctx context.Context, item *models.CookieItem) error {
	if err := m.store.Update(ctx, item); err != nil {
		return err
	}
	return m.UpdateCookiesFile(ctx)
}

// Delete removes a cookie item and regenerates the cookie file.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	return m.UpdateCookiesFile(ctx)
}

// DeleteAll empties the cookie table.
//
// The cookie file is left as is until the next regeneration.
func (m *Manager) DeleteAll(ctx context.Context) error {
	return m.store.DeleteAll(ctx)
}

// UpdateCookiesFile rebuilds the cookie file from every stored item.
func (m *Manager) UpdateCookiesFile(ctx context.Context) error {
	// Snapshot under the lock so overlapping rebuilds write in table order.
	m.fileMu.Lock()
	defer m.fileMu.Unlock()

	items, err := m.store.GetAll(ctx)
	if err != nil {
		return err
	}
	content := BuildFile(items)

	if err := writeFileAtomic(m.filePath, []byte(content)); err != nil {
		return fmt.Errorf("failed to write cookie file %q: %w", m.filePath, err)
	}
	logging.D(1, "Wrote %d cookie items to %q", len(items), m.filePath)
	return nil
}

// GetCookiesFromDB returns the embedded browser cookies for url as Netscape lines.
func (m *Manager) GetCookiesFromDB(ctx context.Context, url string) (string, error) {
	return GetCookiesFromDB(ctx, m.webViewDir, url)
}

// SaveForURL stores content under url, updating the existing item for that URL if present.
func (m *Manager) SaveForURL(ctx context.Context, url, content string) (int64, error) {
	existing, hasRows, err := m.store.GetByURL(ctx, url)
	if err != nil {
		return 0, err
	}
	if hasRows {
		existing.Content = content
		return existing.ID, m.Update(ctx, existing)
	}
	return m.Insert(ctx, &models.CookieItem{URL: url, Content: content})
}

// ImportFromWebView copies the embedded browser cookies for url into the store.
func (m *Manager) ImportFromWebView(ctx context.Context, url string) (int64, error) {
	content, err := m.GetCookiesFromDB(ctx, url)
	if err != nil {
		return 0, err
	}
	return m.SaveForURL(ctx, url, content)
}

// ImportFromBrowsers copies the desktop browser cookies for url into the store.
func (m *Manager) ImportFromBrowsers(ctx context.Context, url string) (int64, error) {
	content, err := ExtractFromBrowsers(ctx, url)
	if err != nil {
		return 0, err
	}
	return m.SaveForURL(ctx, url, content)
}

// ImportFromClipboard stores clipboard text as a new cookie item if it is a Netscape cookie file.
//
// Returns false when the clipboard is unreadable or holds anything else.
func (m *Manager) ImportFromClipboard(ctx context.Context) bool {
	text, err := m.clip.ReadAll()
	if err != nil {
		logging.E("Failed to read clipboard: %v", err)
		return false
	}
	if !strings.HasPrefix(text, consts.NetscapeHeaderLine) {
		logging.D(1, "Clipboard does not hold a Netscape cookie file, skipping import")
		return false
	}

	item := &models.CookieItem{
		URL:     fmt.Sprintf("Cookie Import at [%s]", m.now().Format(time.UnixDate)),
		Content: strings.TrimPrefix(text, consts.CookieHeader),
	}
	if _, err := m.Insert(ctx, item); err != nil {
		logging.E("Failed to import cookies from clipboard: %v", err)
		return false
	}

	logging.S("Imported cookies from clipboard as %q", item.URL)
	return true
}

// ExportToClipboard copies the cookie file text to the clipboard, generating the file first if missing.
func (m *Manager) ExportToClipboard(ctx context.Context) bool {
	b, ok := m.readCookieFile(ctx)
	if !ok {
		return false
	}

	if err := m.clip.WriteAll(string(b)); err != nil {
		logging.E("Failed to write clipboard: %v", err)
		return false
	}
	logging.S("Copied %d bytes of cookies to the clipboard", len(b))
	return true
}

// ExportToFile copies the cookie file into dir, generating it first if missing.
//
// Returns the destination path, or "" on failure.
func (m *Manager) ExportToFile(ctx context.Context, dir string) string {
	b, ok := m.readCookieFile(ctx)
	if !ok {
		return ""
	}

	if err := os.MkdirAll(dir, consts.PermsGenericDir); err != nil {
		logging.E("Failed to create export directory %q: %v", dir, err)
		return ""
	}

	dest := filepath.Join(dir, consts.CookieExportFileName)
	if err := os.WriteFile(dest, b, consts.PermsExportFile); err != nil {
		logging.E("Failed to write exported cookie file %q: %v", dest, err)
		return ""
	}

	logging.S("Exported cookies to %q", dest)
	return dest
}

// readCookieFile returns the cookie file contents, regenerating the file if it does not exist.
func (m *Manager) readCookieFile(ctx context.Context) ([]byte, bool) {
	if _, err := os.Stat(m.filePath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.E("Failed to stat cookie file %q: %v", m.filePath, err)
			return nil, false
		}
		if err := m.UpdateCookiesFile(ctx); err != nil {
			logging.E("Failed to generate cookie file: %v", err)
			return nil, false
		}
	}

	m.fileMu.Lock()
	defer m.fileMu.Unlock()

	b, err := os.ReadFile(m.filePath)
	if err != nil {
		logging.E("Failed to read cookie file %q: %v", m.filePath, err)
		return nil, false
	}
	return b, true
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, consts.PermsCookieDir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(consts.PermsCookieFile); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
