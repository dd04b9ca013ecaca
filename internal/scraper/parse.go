package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"ytdlnis/internal/utils/logging"

	"github.com/araddon/dateparse"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseDate parses a date in any common layout, returning the zero time on failure.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		logging.D(1, "Could not parse date %q: %v", s, err)
		return time.Time{}
	}
	return t
}

// formatDuration renders an ISO 8601 duration ("PT1H2M3S") as "1:02:03".
//
// Anything else is returned unchanged.
func formatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return iso
	}

	var parts [4]int
	for i := range parts {
		if m[i+1] != "" {
			parts[i], _ = strconv.Atoi(m[i+1])
		}
	}
	hours := parts[0]*24 + parts[1]
	mins, secs := parts[2], parts[3]

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
