package models

import "strings"

// Format is one downloadable stream reported for a result.
type Format struct {
	FormatID   string `json:"format_id"`
	Container  string `json:"container"`
	VCodec     string `json:"vcodec"`
	ACodec     string `json:"acodec"`
	FormatNote string `json:"format_note"`
	Filesize   int64  `json:"filesize"`
	ASR        string `json:"asr,omitempty"`
	TBR        string `json:"tbr,omitempty"`
}

// IsAudio reports whether the format note marks it as an audio stream.
func (f Format) IsAudio() bool {
	return strings.Contains(strings.ToLower(f.FormatNote), "audio")
}

// Chapter is a titled time range inside a result.
type Chapter struct {
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// GenericAudioFormats are the selector formats offered when a result has no audio formats.
//
// The last entry is the fallback choice.
func GenericAudioFormats() []Format {
	return []Format{
		{FormatID: "worstaudio", FormatNote: "worst audio"},
		{FormatID: "bestaudio", FormatNote: "best audio"},
	}
}

// FilterAudio returns the audio formats in formats.
func FilterAudio(formats []Format) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if f.IsAudio() {
			out = append(out, f)
		}
	}
	return out
}

// ContainsFormat reports whether f is in formats (by ID and note).
func ContainsFormat(formats []Format, f Format) bool {
	for _, x := range formats {
		if x.FormatID == f.FormatID && x.FormatNote == f.FormatNote {
			return true
		}
	}
	return false
}
