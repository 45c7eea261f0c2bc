package scryfall

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"github.com/riskibarqy/commander-stats/internal/platform/resilience"
	"github.com/riskibarqy/commander-stats/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL   = "https://api.scryfall.com"
	defaultUserAgent = "commander-stats/1.0"
	// DefaultQuery selects every card that is allowed to lead a Commander deck.
	DefaultQuery     = `(type:legendary AND type:creature) OR (oracle:"can be your commander")`
	defaultPageDelay = 100 * time.Millisecond
	maxBodyBytes     = 16 << 20
	maxPages         = 500
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Query          string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	PageDelay      time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	query      string
	userAgent  string
	retry      resilience.RetryPolicy
	pageDelay  time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	query := strings.TrimSpace(cfg.Query)
	if query == "" {
		query = DefaultQuery
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	retry := resilience.DefaultRetryPolicy()
	retry.MaxRetries = max(cfg.MaxRetries, 0)
	if cfg.RetryBackoff > 0 {
		retry.Backoff = cfg.RetryBackoff
	}

	pageDelay := cfg.PageDelay
	if pageDelay == 0 {
		pageDelay = defaultPageDelay
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		query:      query,
		userAgent:  userAgent,
		retry:      retry,
		pageDelay:  max(pageDelay, 0),
		logger:     logger.Named("scryfall"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchCommanders walks every page of the card search. Scryfall asks clients to pause
// between requests, so pages are fetched one at a time with a delay.
func (c *Client) FetchCommanders(ctx context.Context) ([]usecase.ExternalCommanderCard, error) {
	values := url.Values{}
	values.Set("q", c.query)
	values.Set("unique", "cards")
	pageURL := c.baseURL + "/cards/search?" + values.Encode()

	out := make([]usecase.ExternalCommanderCard, 0, 2048)
	for page := 1; pageURL != ""; page++ {
		if page > maxPages {
			return nil, crerr.Newf("card search did not finish after %d pages", maxPages)
		}
		if page > 1 {
			if err := sleep(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}

		var payload searchPage
		found, err := c.doJSON(ctx, pageURL, &payload)
		if err != nil {
			return nil, crerr.Wrapf(err, "fetch card search page %d", page)
		}
		if !found {
			break
		}

		for _, item := range payload.Data {
			out = append(out, mapCard(item))
		}
		c.logger.DebugContext(ctx, "card search page fetched",
			"page", page,
			"cards", len(payload.Data),
			"total", payload.TotalCards,
			"has_more", payload.HasMore,
		)

		pageURL = ""
		if payload.HasMore {
			pageURL = strings.TrimSpace(payload.NextPage)
			if pageURL == "" {
				return nil, crerr.Newf("page %d reports more results without a next_page link", page)
			}
		}
	}

	c.logger.InfoContext(ctx, "card search finished", "cards", len(out))
	return out, nil
}

func mapCard(item card) usecase.ExternalCommanderCard {
	return usecase.ExternalCommanderCard{
		OracleID:      item.oracleID(),
		Name:          item.Name,
		TypeLine:      item.typeLine(),
		ColorIdentity: append([]string(nil), item.ColorIdentity...),
		ImageURL:      item.normalImage(),
	}
}

// doJSON decodes a successful response into target. A 404 means the search matched nothing
// and is reported as found=false. Only transient failures count against the breaker; a
// rejected query or a cancelled context leaves its failure count untouched.
func (c *Client) doJSON(ctx context.Context, fullURL string, target any) (bool, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "scryfall circuit breaker rejected request", "state", c.breaker.State())
		return false, crerr.Mark(crerr.Wrap(err, "card catalog is temporarily unavailable"), usecase.ErrDependencyUnavailable)
	}

	found := true
	err := resilience.Retry(ctx, c.retry, func(attempt int) error {
		var reqErr error
		found, reqErr = c.executeRequest(ctx, fullURL, target)
		if reqErr != nil && crerr.Is(reqErr, resilience.ErrRetryable) {
			c.logger.WarnContext(ctx, "scryfall request failed", "url", fullURL, "attempt", attempt+1, "error", reqErr)
		}
		return reqErr
	})

	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case crerr.Is(err, resilience.ErrRetryable):
		c.breaker.RecordFailure()
	default:
		c.breaker.Release()
	}
	return found, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, target any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return false, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, crerr.Mark(crerr.Wrap(err, "send request"), resilience.ErrRetryable)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "read response body"), resilience.ErrRetryable)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := sonic.Unmarshal(buf.Bytes(), target); err != nil {
			return false, crerr.Wrap(err, "decode card search payload")
		}
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		statusErr := crerr.Newf("scryfall status=%d: %s", resp.StatusCode, describeError(buf.Bytes()))
		if isRetryableStatus(resp.StatusCode) {
			return false, crerr.Mark(statusErr, resilience.ErrRetryable)
		}
		return false, statusErr
	}
}

func describeError(body []byte) string {
	var apiErr apiError
	if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
		return apiErr.Code + ": " + apiErr.Details
	}
	return abbreviateBody(body)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 256 {
		return text[:256] + "..."
	}
	return text
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
