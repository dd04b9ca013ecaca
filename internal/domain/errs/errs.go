// Package errs holds sentinel errors shared between packages.
package errs

import "errors"

var (
	ErrCookieDBNotFound = errors.New("cookies file not found")
	ErrNoCookies        = errors.New("there are no cookies in the database")
	ErrItemNotFound     = errors.New("download item not found")
	ErrUndoExpired      = errors.New("undo entry not found or expired")
	ErrYtdlpNotFound    = errors.New("yt-dlp command not found")
)

// YTDLPFailure wraps a failed yt-dlp run.
const YTDLPFailure = "yt-dlp command failed: %w"
