// Package scraper builds result items from web pages.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/cookies"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"golang.org/x/net/publicsuffix"
)

// Scraper fetches page metadata, sending the stored cookies.
type Scraper struct {
	results    contracts.ResultStore
	cookieFile string
	timeout    time.Duration
}

// New returns a new Scraper instance.
func New(results contracts.ResultStore, cookieFile string) *Scraper {
	return &Scraper{
		results:    results,
		cookieFile: cookieFile,
		timeout:    consts.ScrapeTimeout,
	}
}

// FetchResult scrapes rawURL and stores the result, updating any earlier result for the URL.
func (s *Scraper) FetchResult(ctx context.Context, rawURL string) (*models.ResultItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector, err := s.initializeCollector(rawURL)
	if err != nil {
		return nil, err
	}

	r := &models.ResultItem{URL: rawURL}
	var found bool

	logging.I("Scraping %q for metadata...", rawURL)
	collector.OnHTML("html", func(container *colly.HTMLElement) {
		found = true
		fillResult(r, container.DOM, container.Request.URL)
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("failed to visit URL %q: %w", rawURL, err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no HTML document at %q", rawURL)
	}
	if r.Title == "" {
		logging.W("No title found for %q", rawURL)
	}

	if s.results == nil {
		return r, nil
	}
	if err := s.store(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// store inserts r or updates the existing result for its URL, keeping cached formats.
func (s *Scraper) store(ctx context.Context, r *models.ResultItem) error {
	existing, hasRows, err := s.results.GetByURL(ctx, r.URL)
	if err != nil {
		return err
	}
	if !hasRows {
		_, err := s.results.Insert(ctx, r)
		return err
	}

	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt
	r.Formats = existing.Formats
	r.Chapters = existing.Chapters
	return s.results.Update(ctx, r)
}

// initializeCollector initializes Colly with the stored cookies.
func (s *Scraper) initializeCollector(urlStr string) (*colly.Collector, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", urlStr)
	}

	if c := s.loadCookies(); len(c) > 0 {
		jar.SetCookies(parsedURL, c)
		logging.D(2, "Loaded %d cookies into jar for %q", len(jar.Cookies(parsedURL)), parsedURL.Host)
	} else {
		logging.D(1, "No stored cookies available for %q", parsedURL.Host)
	}

	collector := colly.NewCollector()
	collector.SetRequestTimeout(s.timeout)
	collector.SetCookieJar(jar)
	return collector, nil
}

// loadCookies parses the generated cookie file.
func (s *Scraper) loadCookies() []*http.Cookie {
	if s.cookieFile == "" {
		return nil
	}
	b, err := os.ReadFile(s.cookieFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.E("Failed to read cookie file %q: %v", s.cookieFile, err)
		}
		return nil
	}
	return cookies.ParseLines(string(b))
}

// fillResult reads metadata from the document.
func fillResult(r *models.ResultItem, doc *goquery.Selection, pageURL *url.URL) {
	r.Title = firstNonEmpty(
		metaContent(doc, "meta[property='og:title']"),
		metaContent(doc, "meta[name='title']"),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	r.Author = firstNonEmpty(
		metaContent(doc, "span[itemprop='author'] link[itemprop='name']"),
		metaContent(doc, "meta[name='author']"),
		metaContent(doc, "meta[property='article:author']"),
	)
	r.Thumb = firstNonEmpty(
		metaContent(doc, "meta[property='og:image']"),
		metaContent(doc, "meta[name='twitter:image']"),
	)
	r.Website = metaContent(doc, "meta[property='og:site_name']")
	if r.Website == "" && pageURL != nil {
		r.Website = pageURL.Hostname()
	}

	if d := metaContent(doc, "meta[itemprop='duration']"); d != "" {
		r.Duration = formatDuration(d)
	}

	r.UploadDate = parseDate(firstNonEmpty(
		metaContent(doc, "meta[itemprop='uploadDate']"),
		metaContent(doc, "meta[itemprop='datePublished']"),
		metaContent(doc, "meta[property='video:release_date']"),
		metaContent(doc, "meta[property='article:published_time']"),
	))

	logging.D(2, "Scraped title %q, author %q, website %q", r.Title, r.Author, r.Website)
}

// metaContent returns the trimmed content attribute of the first match.
func metaContent(doc *goquery.Selection, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
