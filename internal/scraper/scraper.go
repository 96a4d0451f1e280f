// Package scraper fetches single pages and reduces their HTML to readable text.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"semantiapi/internal/config"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
	// ErrBlockedAddress is returned when a URL resolves to a loopback, private or link-local address.
	ErrBlockedAddress = errors.New("address not allowed")
	// ErrPageTooLarge is returned when a response body exceeds the configured limit.
	ErrPageTooLarge = errors.New("page too large")
)

const (
	defaultUserAgent = "semantiapi/1.0 (+https://github.com/semantiapi)"
	defaultMaxBytes  = 5 << 20
)

// Page is the readable content of a fetched URL.
type Page struct {
	URL     string `json:"url"`
	BaseURL string `json:"baseurl"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type Scraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
}

// New builds a Scraper. Zero values in cfg fall back to 2 requests per second, a 30s
// timeout and a 5 MiB body limit. Unless cfg.AllowPrivate is set, connections to
// non-public addresses are refused at dial time, which also covers redirects.
func New(cfg config.ScraperConfig) *Scraper {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.AllowPrivate {
		dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second, Control: publicOnly}
		tr.DialContext = dialer.DialContext
		// A proxy would be dialled instead of the target.
		tr.Proxy = nil
	}

	return &Scraper{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(tr),
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
}

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
}

// publicOnly is a net.Dialer Control hook that runs after name resolution.
func publicOnly(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if !isPublic(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ap.Addr())
	}
	return nil
}

func isPublic(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() {
		return false
	}
	for _, p := range blockedPrefixes {
		if p.Contains(ip) {
			return false
		}
	}
	return true
}

// Fetch downloads rawURL and extracts its main content.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidURL, rawURL)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, u)
	}
	if resp.ContentLength > s.maxBytes {
		return nil, fmt.Errorf("%w: %s declares %d bytes", ErrPageTooLarge, u, resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPageTooLarge, u, s.maxBytes)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u, err)
	}
	html, _ := doc.Html()

	return &Page{
		URL:     u.String(),
		BaseURL: u.Scheme + "://" + u.Hostname(),
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Text:    extractMainContent(doc),
		HTML:    html,
	}, nil
}

// HTMLToText extracts the readable text of an HTML fragment or document.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return extractMainContent(doc), nil
}

var mainSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
}

func extractMainContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	var content string
	for _, selector := range mainSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First().Text()
			break
		}
	}
	if strings.TrimSpace(content) == "" {
		content = doc.Find("body").Text()
	}
	return cleanContent(content)
}

var noisePatterns = []string{
	"Cookie Policy",
	"Accept Cookies",
	"Privacy Policy",
	"Terms of Service",
}

func cleanContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	for _, p := range noisePatterns {
		content = strings.ReplaceAll(content, p, "")
	}
	return strings.Join(strings.Fields(content), " ")
}
