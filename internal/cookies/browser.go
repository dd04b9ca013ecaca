package cookies

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ytdlnis/internal/domain/errs"
	"ytdlnis/internal/utils/logging"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"
	"golang.org/x/net/publicsuffix"
)

// BaseDomain returns the registrable domain of a URL (e.g. "youtube.com" for "https://m.youtube.com/x").
func BaseDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}
	return publicsuffix.EffectiveTLDPlusOne(u.Hostname())
}

// ReadBrowserCookies reads valid cookies for the URL's base domain from every installed desktop browser.
func ReadBrowserCookies(ctx context.Context, rawURL string) ([]*http.Cookie, error) {
	domain, err := BaseDomain(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	kookyCookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil && len(kookyCookies) == 0 {
		return nil, fmt.Errorf("failed reading browser cookies for %q: %w", domain, err)
	}
	if err != nil {
		logging.D(2, "Some browser stores failed while reading cookies for %q: %v", domain, err)
	}

	if len(kookyCookies) == 0 {
		return nil, errs.ErrNoCookies
	}

	logging.I("Found %d browser cookies for %s", len(kookyCookies), domain)
	return convertToHTTPCookies(kookyCookies), nil
}

// ExtractFromBrowsers renders browser cookies for a URL as Netscape lines, deduplicated
// by domain, path and name with the last seen cookie winning.
func ExtractFromBrowsers(ctx context.Context, rawURL string) (string, error) {
	cookies, err := ReadBrowserCookies(ctx, rawURL)
	if err != nil {
		return "", err
	}

	order := make([]string, 0, len(cookies))
	byKey := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		key := c.Domain + "|" + c.Path + "|" + c.Name
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = c
	}

	var b strings.Builder
	for _, key := range order {
		b.WriteString(FormatHTTPCookie(byKey[key]))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, 0, len(kookyCookies))
	for _, c := range kookyCookies {
		if c == nil {
			continue
		}
		httpCookies = append(httpCookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  normalizeHost(c.Domain),
			Secure:  c.Secure,
			Expires: c.Expires,
		})
	}
	return httpCookies
}

// normalizeHost prefixes a "." to hosts that lack one.
func normalizeHost(host string) string {
	if host == "" || strings.HasPrefix(host, ".") {
		return host
	}
	return "." + host
}
