// Package preview fetches a page and extracts link-preview metadata: Open
// Graph tags first, then named meta tags, then the document title, then the
// URL itself. Partial metadata is a valid result, never an error.
package preview

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout is the fixed bound on one preview fetch. The fetch must
// fail past this point, never hang.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is a browser-like user agent; many sites serve empty
// metadata to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Preview holds the extracted card fields. Every field except URL is
// best-effort; absent metadata yields an empty string.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SiteName    string `json:"site_name"`
	Author      string `json:"author"`
}

// Options configures a Fetcher.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	AllowBrowser bool // headless fallback for pages that render nothing statically
}

// Fetcher fetches URLs and extracts preview metadata. Concurrent fetches of
// the same URL are collapsed into a single request.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	timeout      time.Duration
	allowBrowser bool
	group        singleflight.Group
}

// NewFetcher creates a Fetcher. Zero-value options fall back to defaults.
func NewFetcher(opts *Options) *Fetcher {
	if opts == nil {
		opts = &Options{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		// Redirects are followed by default; scraped links are often
		// shorteners or tracking hops.
		client:       &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		timeout:      timeout,
		allowBrowser: opts.AllowBrowser,
	}
}

// Fetch retrieves rawURL and returns its preview card fields.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	v, err, _ := f.group.Do(rawURL, func() (any, error) {
		return f.fetch(ctx, rawURL, parsed.Host)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Preview), nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL, host string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: rawURL}
		}
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, 999:
		return nil, &BlockedError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: rawURL, Message: http.StatusText(resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to parse HTML", Cause: err}
	}

	p := extract(doc, rawURL, host)

	// A page with no title and no metadata at all is likely a JS-rendered
	// SPA; retry through the headless browser when allowed.
	if f.allowBrowser && bare(doc) {
		if rendered, berr := renderWithBrowser(ctx, rawURL, f.timeout); berr == nil {
			if rdoc, perr := goquery.NewDocumentFromReader(strings.NewReader(rendered)); perr == nil {
				p = extract(rdoc, rawURL, host)
			}
		}
	}

	return p, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// metaContent returns the content attribute of the first matching meta tag.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// extract pulls preview fields out of the document. Fallback order per field:
// Open Graph tag, named/twitter meta tag, document title, then the URL/host.
func extract(doc *goquery.Document, rawURL, host string) *Preview {
	p := &Preview{URL: rawURL}

	p.Title = metaContent(doc,
		`meta[property="og:title"]`,
		`meta[name="twitter:title"]`,
	)
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Title == "" {
		p.Title = rawURL
	}

	p.Description = metaContent(doc,
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	)

	p.ImageURL = metaContent(doc,
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	)

	p.SiteName = metaContent(doc, `meta[property="og:site_name"]`)
	if p.SiteName == "" {
		p.SiteName = host
	}

	p.Author = metaContent(doc,
		`meta[name="author"]`,
		`meta[property="article:author"]`,
	)

	return p
}

// bare reports whether the static document carries neither a title nor any
// Open Graph metadata.
func bare(doc *goquery.Document) bool {
	if strings.TrimSpace(doc.Find("title").First().Text()) != "" {
		return false
	}
	return doc.Find(`meta[property^="og:"]`).Length() == 0
}
