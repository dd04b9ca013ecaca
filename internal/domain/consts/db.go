package consts

// Tables
const (
	DBCookies   = "cookies"
	DBDownloads = "downloads"
	DBResults   = "results"
	DBUndo      = "undo"
)

// Cookies
const (
	QCookieID      = "id"
	QCookieURL     = "url"
	QCookieContent = "content"
)

// Downloads
const (
	QDLID               = "id"
	QDLURL              = "url"
	QDLTitle            = "title"
	QDLAuthor           = "author"
	QDLThumb            = "thumb"
	QDLDuration         = "duration"
	QDLType             = "type"
	QDLContainer        = "container"
	QDLDownloadSections = "download_sections"
	QDLDownloadPath     = "download_path"
	QDLWebsite          = "website"
	QDLPlaylistTitle    = "playlist_title"
	QDLFormat           = "format"
	QDLAllFormats       = "all_formats"
	QDLAudioPrefs       = "audio_preferences"
	QDLFilenameTemplate = "custom_filename_template"
	QDLExtraCommands    = "extra_commands"
	QDLStatus           = "status"
	QDLStartTime        = "download_start_time"
	QDLLogID            = "log_id"
	QDLCreatedAt        = "created_at"
	QDLUpdatedAt        = "updated_at"
)

// Results
const (
	QResID            = "id"
	QResURL           = "url"
	QResTitle         = "title"
	QResAuthor        = "author"
	QResDuration      = "duration"
	QResThumb         = "thumb"
	QResWebsite       = "website"
	QResPlaylistTitle = "playlist_title"
	QResFormats       = "formats"
	QResChapters      = "chapters"
	QResUploadDate    = "upload_date"
	QResCreatedAt     = "created_at"
)

// Undo
const (
	QUndoToken     = "token"
	QUndoItem      = "item"
	QUndoCreatedAt = "created_at"
)

// WebView (Chromium) cookie table columns.
const (
	WebViewCookieTable = "cookies"
	WVHost             = "host_key"
	WVExpiry           = "expires_utc"
	WVPath             = "path"
	WVName             = "name"
	WVValue            = "value"
	WVSecure           = "is_secure"
)
