package scraper

import "testing"

// TestFormatDuration checks ISO durations render as clock strings -------------------------------------------------------
func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"PT3M21S":  "3:21",
		"PT1H2M3S": "1:02:03",
		"PT45S":    "0:45",
		"P1DT1H":   "25:00:00",
		"3:21":     "3:21",
		"PT0M0S":   "0:00",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%q): expected %q, got %q", in, want, got)
		}
	}
}
