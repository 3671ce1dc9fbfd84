package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/snonux/wikifreq/internal"
)

const (
	// DefaultTimeout bounds every request to the MediaWiki API
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond keeps the client well below Wikimedia's
	// etiquette limits for unauthenticated API clients
	DefaultRequestsPerSecond = 5.0

	maxErrorBody = 512
)

// DefaultUserAgent identifies the client as required by the Wikimedia API policy
var DefaultUserAgent = "wikifreq/" + internal.Version + " (https://codeberg.org/snonux/wikifreq)"

// ClientConfig configures a MediaWiki client
type ClientConfig struct {
	Language          string        // Wikipedia language edition, e.g. "en"
	Endpoint          string        // Overrides the api.php URL derived from Language
	UserAgent         string        // Sent with every request
	Timeout           time.Duration // Per-request timeout
	RequestsPerSecond float64       // Proactive throttle, <= 0 disables it
}

// DefaultClientConfig returns defaults for the English Wikipedia
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Language:          "en",
		UserAgent:         DefaultUserAgent,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

// EndpointFor returns the api.php URL of a Wikipedia language edition
func EndpointFor(language string) string {
	if language == "" {
		language = "en"
	}
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", language)
}

// MediaWikiClient implements Source for the MediaWiki action API
type MediaWikiClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// randomResponse is the payload of list=random
type randomResponse struct {
	Error *APIError `json:"error"`
	Query *struct {
		Random []struct {
			ID    int64  `json:"id"`
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"random"`
	} `json:"query"`
}

// extractResponse is the payload of prop=extracts; pages are keyed by page id
type extractResponse struct {
	Error *APIError `json:"error"`
	Query *struct {
		Pages map[string]struct {
			PageID  int64   `json:"pageid"`
			Title   string  `json:"title"`
			Missing *string `json:"missing"`
			Extract string  `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// NewMediaWikiClient creates a client, filling in defaults for zero values
func NewMediaWikiClient(cfg ClientConfig) *MediaWikiClient {
	defaults := DefaultClientConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = EndpointFor(cfg.Language)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &MediaWikiClient{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}
}

// Name returns the name of the corpus
func (c *MediaWikiClient) Name() string {
	return "mediawiki"
}

// Endpoint returns the api.php URL used by the client
func (c *MediaWikiClient) Endpoint() string {
	return c.endpoint
}

// RandomTitle asks for one random non-redirect article in namespace 0
func (c *MediaWikiClient) RandomTitle(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "random")
	params.Set("rnnamespace", "0")
	params.Set("rnfilterredir", "nonredirects")
	params.Set("rnlimit", "1")

	var resp randomResponse
	if err := c.get(ctx, "random", "", params, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", &TransientFetchError{Op: "random", Err: resp.Error}
	}
	if resp.Query == nil || len(resp.Query.Random) == 0 || resp.Query.Random[0].Title == "" {
		return "", &TransientFetchError{Op: "random", Err: errors.New("response contains no random page")}
	}

	return resp.Query.Random[0].Title, nil
}

// Extract fetches the plain-text extract of title. Missing pages and pages
// without an extract yield an empty string.
func (c *MediaWikiClient) Extract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exlimit", "1")
	params.Set("titles", title)

	var resp extractResponse
	if err := c.get(ctx, "extract", title, params, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", &TransientFetchError{Op: "extract", Title: title, Err: resp.Error}
	}
	if resp.Query == nil || len(resp.Query.Pages) == 0 {
		return "", nil
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return "", nil
		}
		return page.Extract, nil
	}
	return "", nil
}

// get performs a throttled GET and decodes the JSON body into out
func (c *MediaWikiClient) get(ctx context.Context, op, title string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransientFetchError{Op: op, Title: title, Err: err}
		}
	}

	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransientFetchError{Op: op, Title: title, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientFetchError{Op: op, Title: title, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransientFetchError{
			Op:         op,
			Title:      title,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransientFetchError{Op: op, Title: title, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
