// Package registry validates identifier candidates against the authoritative
// registries: doi.org for DOIs and export.arxiv.org for arXiv IDs.
package registry

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DOIBaseURL is the DOI proxy used for content-negotiated lookups.
	DOIBaseURL = "https://doi.org"

	// ArXivBaseURL is the arXiv metadata API endpoint.
	ArXivBaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// Registry courtesy limits: doi.org tolerates bursts, the arXiv API
	// asks for no more than one request every three seconds.
	doiRateLimit   = 5.0
	arxivRateLimit = 1.0 / 3.0
)

// Request formats accepted by the doi.org content negotiation proxy.
const (
	FormatCiteprocJSON = "application/citeproc+json"
	FormatBibTeX       = "application/x-bibtex"
	FormatBibliography = "text/bibliography; style=bibtex"
)

// Client is a rate-limited HTTP client for the two identifier registries.
type Client struct {
	httpClient   *http.Client
	doiLimiter   *rate.Limiter
	arxivLimiter *rate.Limiter
	doiBase      string
	arxivBase    string
	userAgent    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithDOIBaseURL sets a custom DOI proxy base URL (for testing).
func WithDOIBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.doiBase = url
	}
}

// WithArXivBaseURL sets a custom arXiv API base URL (for testing).
func WithArXivBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.arxivBase = url
	}
}

// WithUserAgent sets the User-Agent header, ideally including a mailto:
// contact so registry operators can reach out about traffic.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a registry client with sensible defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		doiLimiter:   rate.NewLimiter(rate.Limit(doiRateLimit), 1),
		arxivLimiter: rate.NewLimiter(rate.Limit(arxivRateLimit), 1),
		doiBase:      DOIBaseURL,
		arxivBase:    ArXivBaseURL,
		userAgent:    "refsolve/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupDOI queries the DOI proxy for a structured citation record in the
// given format. It returns the raw record text, ErrNotFound if the registry
// has no such DOI, or ErrNetwork on transport failures.
func (c *Client) LookupDOI(ctx context.Context, doi, format string) (string, error) {
	if doi == "" {
		return "", ErrNotFound
	}
	if format == "" {
		format = FormatCiteprocJSON
	}
	if err := c.doiLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.doiBase+"/"+doi, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", format)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	// The proxy serves an HTML error page for some malformed DOIs.
	if strings.Contains(strings.ToLower(text), "doi cannot be found") {
		return "", ErrNotFound
	}
	// A @misc bibtex entry is the record of the journal, not the article.
	if strings.HasPrefix(text, "@misc") {
		return "", fmt.Errorf("%w: journal-level record", ErrNotFound)
	}

	return text, nil
}

// LookupArXiv queries the arXiv API for an identifier and returns its Atom
// entry. It returns ErrNotFound when no entry with a matching ID exists and
// ErrNetwork on transport failures.
func (c *Client) LookupArXiv(ctx context.Context, id string) (*ArXivEntry, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if err := c.arxivLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s?search_query=id:%s&start=0&max_results=1", c.arxivBase, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: parsing feed: %v", ErrInvalidResponse, err)
	}

	for i := range feed.Entries {
		entry := &feed.Entries[i]
		if entry.CanonicalID() == stripVersion(id) {
			return entry, nil
		}
	}
	return nil, ErrNotFound
}
