// Package quote resolves the GIFT Nifty futures quote used for the opening gap.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/collector"
)

// ErrUnavailable means no plausible quote could be read from the page.
var ErrUnavailable = errors.New("futures quote unavailable")

const (
	DefaultURL       = "https://www.moneycontrol.com/markets/global-indices/"
	DefaultLabel     = "GIFT Nifty"
	DefaultFloor     = 10000.0
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
	DefaultReferer   = "https://www.google.com/"
)

// Options configures a Scraper. Zero fields take the defaults above.
type Options struct {
	URL       string
	Label     string
	Floor     float64
	Timeout   time.Duration
	UserAgent string
	Referer   string
	Proxy     string
	CacheTTL  time.Duration
}

// Scraper reads a futures quote from an HTML table row carrying a fixed label.
type Scraper struct {
	URL       string
	Label     string
	Floor     float64
	UserAgent string
	Referer   string
	Client    *http.Client

	cache *collector.TTLCache[string, float64]
}

// NewScraper creates a scraper with a short client timeout and no retries.
func NewScraper(opts Options) *Scraper {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Label == "" {
		opts.Label = DefaultLabel
	}
	if opts.Floor == 0 {
		opts.Floor = DefaultFloor
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Referer == "" {
		opts.Referer = DefaultReferer
	}

	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Scraper{
		URL:       opts.URL,
		Label:     opts.Label,
		Floor:     opts.Floor,
		UserAgent: opts.UserAgent,
		Referer:   opts.Referer,
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		cache: collector.NewTTLCache[string, float64]("quote", opts.CacheTTL),
	}
}

// Scrape fetches the page and extracts the quote.
func (s *Scraper) Scrape(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", s.Referer)

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch quote page: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse quote page: %w", err)
	}
	return ExtractQuote(doc, s.Label, s.Floor)
}

// Lookup returns the quote and true, or false when it is unavailable for any reason.
// Successful lookups are memoized for the cache TTL.
func (s *Scraper) Lookup(ctx context.Context) (float64, bool) {
	if v, ok := s.cache.Get(s.URL); ok {
		return v, true
	}
	v, err := s.Scrape(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", s.URL).Msg("futures quote unavailable")
		return 0, false
	}
	s.cache.Set(s.URL, v)
	return v, true
}

// ExtractQuote scans table rows containing label and returns the first cell
// that parses as a number above floor.
func ExtractQuote(doc *goquery.Document, label string, floor float64) (float64, error) {
	var (
		price float64
		found bool
	)
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Text(), label) {
			return true
		}
		row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(strings.ReplaceAll(cell.Text(), ",", ""))
			v, err := strconv.ParseFloat(text, 64)
			if err != nil || v <= floor {
				return true
			}
			price, found = v, true
			return false
		})
		return !found
	})
	if !found {
		return 0, ErrUnavailable
	}
	return price, nil
}
