// Package paths initializes ytdlnis's filepaths, directories, etc.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ytdlnis/internal/domain/consts"
)

const (
	yDir     = ".ytdlnis"
	yDBFile  = "ytdlnis.db"
	yLogFile = "ytdlnis.log"
	cacheDir = "cache"
	wvDir    = "webview"
)

// File and directory path strings.
var (
	HomeDir        string
	DBFilePath     string
	LogFilePath    string
	CacheDir       string
	CookieFilePath string

	// Defaults for the directory flags.
	DefaultDownloadDir string
	DefaultExportDir   string
	DefaultWebViewDir  string
)

// InitProgFilesDirs initializes necessary program directories and filepaths.
func InitProgFilesDirs() error {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.New("failed to get home directory")
	}

	// Home dir ~/.ytdlnis
	HomeDir = filepath.Join(userHomeDir, yDir)
	if _, err := os.Stat(HomeDir); os.IsNotExist(err) {
		if err := os.MkdirAll(HomeDir, consts.PermsGenericDir); err != nil {
			return fmt.Errorf("failed to make directories: %w", err)
		}
	}

	DBFilePath = filepath.Join(HomeDir, yDBFile)
	LogFilePath = filepath.Join(HomeDir, yLogFile)

	DefaultDownloadDir = filepath.Join(userHomeDir, "Music", "YTDLnis")
	DefaultExportDir = filepath.Join(userHomeDir, "Downloads")
	DefaultWebViewDir = filepath.Join(HomeDir, wvDir)

	return SetCacheDir(filepath.Join(HomeDir, cacheDir))
}

// SetCacheDir points the cookie cache at dir, creating it if needed.
func SetCacheDir(dir string) error {
	if err := os.MkdirAll(dir, consts.PermsCookieDir); err != nil {
		return fmt.Errorf("failed to make cache directory %q: %w", dir, err)
	}
	CacheDir = dir
	CookieFilePath = filepath.Join(dir, consts.CookieFileName)
	return nil
}
