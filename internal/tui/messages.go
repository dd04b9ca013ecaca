package tui

import (
	"ytdlnis/internal/models"
	"ytdlnis/internal/saved"
)

// ErrMsg represents an error.
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface.
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries a freshly loaded page.
type PageLoadedMsg struct {
	Page *saved.Page
}

// ActionDoneMsg reports a finished store action.
type ActionDoneMsg struct {
	Status string
	// UndoToken is set after a swipe delete.
	UndoToken string
	// ClearSelection is set after bulk actions.
	ClearSelection bool
}

// DetailsLoadedMsg carries one item for the details pane.
type DetailsLoadedMsg struct {
	Item *models.DownloadItem
}
