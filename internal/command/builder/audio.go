// Package builder assembles yt-dlp argument lists.
package builder

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/mattn/go-shellwords"
)

// PrintAfterMove makes yt-dlp print each final file path.
const PrintAfterMove = "after_move:%(filepath)s"

// AudioArgs builds the yt-dlp argument list for an audio download item.
//
// cookieFile is passed with --cookies when it exists and is not empty.
func AudioArgs(item *models.DownloadItem, cookieFile string) ([]string, error) {
	if item == nil {
		return nil, errors.New("download item passed in nil")
	}
	if item.URL == "" {
		return nil, fmt.Errorf("download item %d has no URL", item.ID)
	}

	args := []string{"-x"}

	if item.Container != "" {
		args = append(args, "--audio-format", item.Container)
	}
	if f := item.Format.FormatID; f != "" {
		args = append(args, "-f", f)
	}
	if item.DownloadPath != "" {
		args = append(args, "-P", item.DownloadPath)
	}
	if tmpl := outputTemplate(item.CustomFileNameTemplate); tmpl != "" {
		args = append(args, "-o", tmpl)
	}

	prefs := item.AudioPreferences
	if prefs.EmbedThumb {
		args = append(args, "--embed-thumbnail")
	}
	if len(prefs.SponsorBlockFilters) > 0 {
		args = append(args, "--sponsorblock-remove", strings.Join(prefs.SponsorBlockFilters, ","))
	}

	sections := splitSections(item.DownloadSections)
	for _, s := range sections {
		args = append(args, "--download-sections", s)
	}
	if prefs.SplitByChapters && len(sections) == 0 {
		args = append(args, "--split-chapters")
	}

	if cookieFile != "" {
		if info, err := os.Stat(cookieFile); err == nil && info.Size() > 0 {
			args = append(args, "--cookies", cookieFile)
		} else {
			logging.D(1, "Cookie file %q missing or empty, not passing --cookies", cookieFile)
		}
	}

	args = append(args, "--print", PrintAfterMove)

	if extra := strings.TrimSpace(item.ExtraCommands); extra != "" {
		parsed, err := shellwords.Parse(extra)
		if err != nil {
			return nil, fmt.Errorf("invalid extra commands %q: %w", extra, err)
		}
		args = append(args, parsed...)
	}

	args = append(args, item.URL)

	logging.D(1, "Built argument list: %v", args)
	return args, nil
}

// outputTemplate appends the extension field when the template lacks one.
func outputTemplate(tmpl string) string {
	tmpl = strings.TrimSpace(tmpl)
	if tmpl == "" || strings.Contains(tmpl, "%(ext)") {
		return tmpl
	}
	return tmpl + ".%(ext)s"
}

// splitSections splits a ";"-separated sections string.
func splitSections(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
