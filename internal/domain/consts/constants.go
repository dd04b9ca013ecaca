// Package consts holds various global, unchanging values.
package consts

// Cookie file
const (
	NetscapeHeaderLine = "# Netscape HTTP Cookie File"

	CookieHeader = NetscapeHeaderLine + "\n" +
		"# WebView Generated by the YTDLnis app\n" +
		"# This is a generated file! Do not edit."

	CookieFileName       = "cookies.txt"
	CookieExportFileName = "YTDLnis_Cookies.txt"
	WebViewCookieDBName  = "Cookies"
)

// DefaultValue is the display name for "no explicit choice".
const DefaultValue = "Default"

// AudioContainers are the known audio container names, Default first.
var AudioContainers = [...]string{DefaultValue, "mp3", "m4a", "aac", "opus", "flac", "wav", "vorbis", "alac"}

// SponsorBlockCategories are the segment categories yt-dlp can remove.
var SponsorBlockCategories = [...]string{
	"sponsor", "intro", "outro", "selfpromo", "preview", "filler", "interaction", "music_offtopic",
}

// ChromeEpochOffset is the number of seconds between 1601-01-01 and the Unix epoch.
const ChromeEpochOffset int64 = 11644473600

// UndoRetentionHours bounds how long a swiped item can be restored.
const UndoRetentionHours = 24
