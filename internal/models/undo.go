package models

import "time"

// UndoEntry holds a deleted download item so the deletion can be reverted.
type UndoEntry struct {
	Token     string        `json:"token" db:"token"`
	Item      *DownloadItem `json:"item" db:"item"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
