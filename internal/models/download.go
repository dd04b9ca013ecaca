package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DownloadType is the kind of download an item performs.
type DownloadType string

const (
	TypeAudio   DownloadType = "audio"
	TypeVideo   DownloadType = "video"
	TypeCommand DownloadType = "command"
)

// DownloadStatus holds constant download status strings.
type DownloadStatus string

const (
	StatusActive     DownloadStatus = "Active"
	StatusQueued     DownloadStatus = "Queued"
	StatusError      DownloadStatus = "Error"
	StatusCancelled  DownloadStatus = "Cancelled"
	StatusSaved      DownloadStatus = "Saved"
	StatusProcessing DownloadStatus = "Processing"
	StatusCompleted  DownloadStatus = "Completed"
)

// ParseDownloadStatus validates a status string.
func ParseDownloadStatus(s string) (DownloadStatus, error) {
	switch st := DownloadStatus(s); st {
	case StatusActive, StatusQueued, StatusError, StatusCancelled, StatusSaved, StatusProcessing, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown download status %q", s)
}

// AudioPreferences are the audio-only options for a download.
type AudioPreferences struct {
	EmbedThumb          bool     `json:"embed_thumb"`
	SplitByChapters     bool     `json:"split_by_chapters"`
	SponsorBlockFilters []string `json:"sponsor_block_filters"`
}

// DownloadItem is a pending or finished download request.
//
// Matches the order of the DB table, do not alter.
type DownloadItem struct {
	ID                     int64            `json:"id" db:"id"`
	URL                    string           `json:"url" db:"url"`
	Title                  string           `json:"title" db:"title"`
	Author                 string           `json:"author" db:"author"`
	Thumb                  string           `json:"thumb" db:"thumb"`
	Duration               string           `json:"duration" db:"duration"`
	Type                   DownloadType     `json:"type" db:"type"`
	Container              string           `json:"container" db:"container"`
	DownloadSections       string           `json:"download_sections" db:"download_sections"`
	DownloadPath           string           `json:"download_path" db:"download_path"`
	Website                string           `json:"website" db:"website"`
	PlaylistTitle          string           `json:"playlist_title" db:"playlist_title"`
	Format                 Format           `json:"format" db:"format"`
	AllFormats             []Format         `json:"all_formats" db:"all_formats"`
	AudioPreferences       AudioPreferences `json:"audio_preferences" db:"audio_preferences"`
	CustomFileNameTemplate string           `json:"custom_filename_template" db:"custom_filename_template"`
	ExtraCommands          string           `json:"extra_commands" db:"extra_commands"`
	Status                 DownloadStatus   `json:"status" db:"status"`
	DownloadStartTime      int64            `json:"download_start_time" db:"download_start_time"`
	LogID                  int64            `json:"log_id" db:"log_id"`
	CreatedAt              time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of the item.
func (d *DownloadItem) Clone() (*DownloadItem, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal download item %d: %w", d.ID, err)
	}
	var out DownloadItem
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal download item %d: %w", d.ID, err)
	}
	return &out, nil
}

// DisplayTitle returns the title, or the URL when the title is blank.
func (d *DownloadItem) DisplayTitle() string {
	if d.Title == "" {
		return d.URL
	}
	return d.Title
}
