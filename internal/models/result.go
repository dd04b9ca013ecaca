package models

import "time"

// ResultItem is the metadata record a download item is derived from.
type ResultItem struct {
	ID            int64     `json:"id" db:"id"`
	URL           string    `json:"url" db:"url"`
	Title         string    `json:"title" db:"title"`
	Author        string    `json:"author" db:"author"`
	Duration      string    `json:"duration" db:"duration"`
	Thumb         string    `json:"thumb" db:"thumb"`
	Website       string    `json:"website" db:"website"`
	PlaylistTitle string    `json:"playlist_title" db:"playlist_title"`
	Formats       []Format  `json:"formats" db:"formats"`
	Chapters      []Chapter `json:"chapters" db:"chapters"`
	UploadDate    time.Time `json:"upload_date" db:"upload_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
