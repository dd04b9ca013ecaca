package models

import "strings"

// CookieItem is a named block of Netscape cookie lines.
//
// URL holds the display name (a site URL, or an import label).
type CookieItem struct {
	ID      int64  `json:"id" db:"id"`
	URL     string `json:"url" db:"url"`
	Content string `json:"content" db:"content"`
}

// Lines returns the non-empty content lines.
func (c *CookieItem) Lines() []string {
	raw := strings.Split(strings.ReplaceAll(c.Content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
