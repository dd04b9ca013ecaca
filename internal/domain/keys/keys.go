// Package keys holds the viper keys used across ytdlnis.
package keys

// Program
const (
	ConfigFile string = "config"
	DebugLevel string = "debug-level"
	LogJSON    string = "log-json"
)

// Paths
const (
	DBPath      string = "db-path"
	CacheDir    string = "cache-dir"
	WebViewDir  string = "webview-dir"
	DownloadDir string = "download-dir"
	ExportDir   string = "export-dir"
)

// Download preferences
const (
	AudioFormat      string = "audio-format"
	FilenameTemplate string = "filename-template"
	YtdlpPath        string = "ytdlp-path"
	SwipeGestures    string = "swipe-gestures"
	PageSize         string = "page-size"
)

// Saved list flags
const (
	SavedQuery    string = "query"
	SavedPage     string = "page"
	SavedInverted string = "inverted"
	SavedAll      string = "all"
)
