package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/util"
	"github.com/ppiankov/fevercs/internal/worker"
)

// MaxTitlesPerRequest is the MediaWiki limit for the titles parameter of regular clients
const MaxTitlesPerRequest = 50

// ErrAPI marks an error object returned by the MediaWiki API
var ErrAPI = errors.New("mediawiki api error")

// Client queries the MediaWiki API for cross-language links
type Client struct {
	httpClient *http.Client
	apiURL     string // Template, {lang} is replaced by the source language
	userAgent  string
	maxBytes   int64
	limiter    *worker.HostLimiter
}

// NewClient creates a new Client with the given configuration
func NewClient(cfg model.WikiConfig, httpCfg model.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10_000_000
	}

	return &Client{
		httpClient: util.NewHTTPClient(timeout, httpCfg),
		apiURL:     cfg.APIURL,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		limiter:    worker.NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// Endpoint returns the API endpoint of the given language edition
func (c *Client) Endpoint(lang string) string {
	return strings.ReplaceAll(c.apiURL, "{lang}", lang)
}

// LangLinksURL composes the query URL for one batch of titles
func (c *Client) LangLinksURL(source, target string, titles []string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "langlinks")
	params.Set("lllang", target)
	params.Set("lllimit", "max")
	params.Set("titles", strings.Join(titles, "|"))
	return c.Endpoint(source) + "?" + params.Encode()
}

// LangLinks fetches the raw langlinks response for a batch of titles.
// The body is returned unparsed so it can be cached verbatim.
func (c *Client) LangLinks(ctx context.Context, source, target string, titles []string) ([]byte, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("no titles to look up")
	}
	if len(titles) > MaxTitlesPerRequest {
		return nil, fmt.Errorf("too many titles in one request: %d > %d", len(titles), MaxTitlesPerRequest)
	}

	apiURL := c.LangLinksURL(source, target, titles)
	if err := c.limiter.Wait(ctx, apiURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Wikimedia requires a descriptive User-Agent
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
