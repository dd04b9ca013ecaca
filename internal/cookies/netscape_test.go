package cookies_test

import (
	"strings"
	"testing"
	"time"

	"ytdlnis/internal/cookies"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
)

// TestFormatLine checks the Netscape field layout -----------------------------------------------------------------------------
func TestFormatLine(t *testing.T) {
	got := cookies.FormatLine(".youtube.com", "/", true, 1700000000, "SID", "abc")
	want := ".youtube.com\tTRUE\t/\tTRUE\t1700000000\tSID\tabc"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = cookies.FormatLine("example.com", "", false, -5, "a", "b")
	want = "example.com\tFALSE\t/\tFALSE\t0\ta\tb"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// TestChromeExpiryToUnix checks the 1601 epoch conversion ---------------------------------------------------------------------
func TestChromeExpiryToUnix(t *testing.T) {
	if got := cookies.ChromeExpiryToUnix(0); got != 0 {
		t.Fatalf("expected session cookie to stay 0, got %d", got)
	}

	unix := int64(1700000000)
	chrome := (unix + consts.ChromeEpochOffset) * 1_000_000
	if got := cookies.ChromeExpiryToUnix(chrome); got != unix {
		t.Fatalf("expected %d, got %d", unix, got)
	}
}

// TestBuildFileDeduplicates checks every distinct line is written once in row order ----------------------------------------
func TestBuildFileDeduplicates(t *testing.T) {
	lineA := cookies.FormatLine(".a.com", "/", false, 0, "x", "1")
	lineB := cookies.FormatLine(".b.com", "/", false, 0, "y", "2")
	lineC := cookies.FormatLine(".c.com", "/", true, 0, "z", "3")

	items := []*models.CookieItem{
		{ID: 1, URL: "https://a.com", Content: lineA + "\n" + lineB + "\n"},
		{ID: 2, URL: "https://b.com", Content: "\r\n" + lineB + "\r\n" + lineC},
		{ID: 3, URL: "import", Content: consts.NetscapeHeaderLine + "\n" + lineA},
	}

	got := cookies.BuildFile(items)
	want := consts.CookieHeader + "\n" + lineA + "\n" + lineB + "\n" + lineC + "\n"
	if got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}

	for _, line := range []string{lineA, lineB, lineC} {
		if n := strings.Count(got, line); n != 1 {
			t.Fatalf("expected line %q once, got %d", line, n)
		}
	}
}

// TestBuildFileEmpty checks an empty table yields only the header ---------------------------------------------------------
func TestBuildFileEmpty(t *testing.T) {
	if got := cookies.BuildFile(nil); got != consts.CookieHeader+"\n" {
		t.Fatalf("expected bare header, got %q", got)
	}
}

// TestParseLines checks Netscape text parses back into cookies -----------------------------------------------------------
func TestParseLines(t *testing.T) {
	content := consts.CookieHeader + "\n" +
		cookies.FormatLine(".youtube.com", "/", true, 1700000000, "SID", "abc") + "\n" +
		"#HttpOnly_.youtube.com\tTRUE\t/\tFALSE\t0\tHSID\tdef\n" +
		"broken line\n"

	parsed := cookies.ParseLines(content)
	if len(parsed) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(parsed))
	}
	if parsed[0].Name != "SID" || !parsed[0].Secure || !parsed[0].Expires.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected first cookie: %+v", parsed[0])
	}
	if parsed[1].Name != "HSID" || !parsed[1].HttpOnly || !parsed[1].Expires.IsZero() {
		t.Fatalf("unexpected second cookie: %+v", parsed[1])
	}
}
