package playfootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/clubkit/league-sync/internal/platform/logging"
	"github.com/clubkit/league-sync/internal/platform/resilience"
	"github.com/clubkit/league-sync/internal/usecase"
)

const (
	defaultReaderBaseURL = "https://r.jina.ai/http://"
	markdownMarker       = "Markdown Content:"
)

var schemeRegex = regexp.MustCompile(`^https?://`)
var errPlayFootballTransient = crerr.New("playfootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	ReaderBaseURL  string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches playfootball.net portal pages through a reader proxy
// that renders them to markdown-ish plain text. The portal has no API;
// everything downstream is text parsing.
type Client struct {
	httpClient     *http.Client
	readerBaseURL  string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	readerBaseURL := strings.TrimSpace(cfg.ReaderBaseURL)
	if readerBaseURL == "" {
		readerBaseURL = defaultReaderBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		readerBaseURL:  readerBaseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchPage retrieves one portal page as plain text, with the reader
// preamble stripped. Concurrent fetches of the same page collapse into
// a single request.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", fmt.Errorf("page url is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "playfootball circuit breaker rejected request", "state", c.breaker.State())
			return "", fmt.Errorf("%w: league portal is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.readerURL(pageURL)
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errPlayFootballTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return "", err
	}

	raw, ok := out.([]byte)
	if !ok {
		return "", fmt.Errorf("unexpected response payload type %T", out)
	}

	return stripReaderPreamble(string(raw)), nil
}

// readerURL rewrites a portal URL to its reader-proxy form: scheme
// stripped, host and path appended to the reader base.
func (c *Client) readerURL(pageURL string) string {
	normalized := pageURL
	if !strings.HasPrefix(normalized, "http") {
		normalized = "https://" + normalized
	}
	hostPath := schemeRegex.ReplaceAllString(normalized, "")
	return c.readerBaseURL + hostPath
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/plain")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPlayFootballTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errPlayFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: reader status=%d", errPlayFootballTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("reader status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("reader request failed")
	}
	c.logger.WarnContext(ctx, "playfootball request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// stripReaderPreamble drops the reader's "Title/URL Source" header,
// keeping only the rendered page body.
func stripReaderPreamble(text string) string {
	if idx := strings.Index(text, markdownMarker); idx >= 0 {
		return strings.TrimSpace(text[idx+len(markdownMarker):])
	}
	return text
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
