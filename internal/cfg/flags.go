package cfg

import (
	"fmt"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/domain/paths"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default download preferences.
const (
	defaultAudioFormat      = "mp3"
	defaultFilenameTemplate = "%(uploader).30B - %(title).170B"
)

// initRootFlags sets the persistent flags and binds them into viper.
func initRootFlags(root *cobra.Command) error {
	pf := root.PersistentFlags()

	// Program
	pf.String(keys.ConfigFile, "", "Config file (YAML, TOML or JSON)")
	pf.Int(keys.DebugLevel, 0, "Debug level (0-5)")
	pf.Bool(keys.LogJSON, false, "Write console logs as JSON")

	// Paths
	pf.String(keys.DBPath, paths.DBFilePath, "Database file")
	pf.String(keys.CacheDir, paths.CacheDir, "Directory holding the generated cookie file")
	pf.String(keys.WebViewDir, paths.DefaultWebViewDir, "Directory searched for the WebView cookie database")
	pf.String(keys.DownloadDir, paths.DefaultDownloadDir, "Default audio download directory")
	pf.String(keys.ExportDir, paths.DefaultExportDir, "Directory cookie exports are written to")

	// Download preferences
	pf.String(keys.AudioFormat, defaultAudioFormat, "Preferred audio container")
	pf.String(keys.FilenameTemplate, defaultFilenameTemplate, "yt-dlp output filename template")
	pf.String(keys.YtdlpPath, "", "Path to the yt-dlp binary (default: found on PATH)")
	pf.Bool(keys.SwipeGestures, true, "Enable swipe actions in the saved list")
	pf.Int(keys.PageSize, consts.DefaultPageSize, "Saved list page size")

	var bindErr error
	pf.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		if err := viper.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %q: %w", f.Name, err)
		}
	})
	return bindErr
}
