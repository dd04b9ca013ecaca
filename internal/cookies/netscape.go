// Package cookies bridges browser cookie stores to the Netscape cookie file used by yt-dlp.
package cookies

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
)

// Netscape cookie-file field positions.
const (
	fieldDomain = iota
	fieldFlag
	fieldPath
	fieldSecure
	fieldExpiry
	fieldName
	fieldValue
	fieldCount
)

// FormatLine renders one cookie as a tab-delimited Netscape line (without a trailing newline).
//
// Expiry is in Unix seconds, 0 marks a session cookie.
func FormatLine(domain, path string, secure bool, expiry int64, name, value string) string {
	flag := "FALSE"
	if strings.HasPrefix(domain, ".") {
		flag = "TRUE"
	}
	if path == "" {
		path = "/"
	}
	if expiry < 0 {
		expiry = 0
	}

	var b strings.Builder
	b.Grow(len(domain) + len(path) + len(name) + len(value) + 32)
	b.WriteString(domain)
	b.WriteByte('\t')
	b.WriteString(flag)
	b.WriteByte('\t')
	b.WriteString(path)
	b.WriteByte('\t')
	b.WriteString(strings.ToUpper(strconv.FormatBool(secure)))
	b.WriteByte('\t')
	b.WriteString(strconv.FormatInt(expiry, 10))
	b.WriteByte('\t')
	b.WriteString(name)
	b.WriteByte('\t')
	b.WriteString(value)
	return b.String()
}

// FormatHTTPCookie renders an http.Cookie as a Netscape line.
func FormatHTTPCookie(c *http.Cookie) string {
	var expiry int64
	if !c.Expires.IsZero() {
		expiry = c.Expires.Unix()
	}
	return FormatLine(c.Domain, c.Path, c.Secure, expiry, c.Name, c.Value)
}

// ChromeExpiryToUnix converts a Chromium expires_utc value (microseconds since 1601) to Unix seconds.
func ChromeExpiryToUnix(expiresUTC int64) int64 {
	if expiresUTC <= 0 {
		return 0
	}
	unix := expiresUTC/1_000_000 - consts.ChromeEpochOffset
	if unix < 0 {
		return 0
	}
	return unix
}

// BuildFile renders the cookie file: the fixed header, then every distinct non-empty
// content line of items in row order.
func BuildFile(items []*models.CookieItem) string {
	var b strings.Builder
	b.WriteString(consts.CookieHeader)
	b.WriteByte('\n')

	seen := make(map[string]struct{})
	for _, h := range strings.Split(consts.CookieHeader, "\n") {
		seen[h] = struct{}{}
	}

	for _, item := range items {
		for _, line := range item.Lines() {
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ParseLines parses Netscape cookie text into http cookies, skipping comments and malformed lines.
//
// The curl "#HttpOnly_" domain prefix is honored.
func ParseLines(content string) []*http.Cookie {
	var out []*http.Cookie
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		httpOnly := false
		if rest, ok := strings.CutPrefix(line, "#HttpOnly_"); ok {
			line = rest
			httpOnly = true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < fieldCount {
			continue
		}

		c := &http.Cookie{
			Domain:   fields[fieldDomain],
			Path:     fields[fieldPath],
			Secure:   strings.EqualFold(fields[fieldSecure], "TRUE"),
			Name:     fields[fieldName],
			Value:    strings.Join(fields[fieldValue:], "\t"),
			HttpOnly: httpOnly,
		}
		if exp, err := strconv.ParseInt(fields[fieldExpiry], 10, 64); err == nil && exp > 0 {
			c.Expires = time.Unix(exp, 0)
		}
		out = append(out, c)
	}
	return out
}
