package opendota

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/platform/resilience"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://api.opendota.com/api"
	defaultRetryAfter   = 10 * time.Second
	maxRetryAfter       = time.Minute
	maxResponseBodySize = 16 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)
var errOpenDotaTransient = crerr.New("opendota transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// RateInterval is the minimum spacing between requests. Zero disables
	// client-side throttling.
	RateInterval   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the OpenDota REST API. One Client shares its limiter
// across every caller, so the aggregate request rate stays under the quota.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	sleep          func(ctx context.Context, d time.Duration) error
}

var _ match.Gateway = (*Client)(nil)

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

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Inf
	if cfg.RateInterval > 0 {
		limit = rate.Every(cfg.RateInterval)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("opendota circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		limiter:        rate.NewLimiter(limit, 1),
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		sleep:          sleepContext,
	}
}

func (c *Client) ListProPlayers(ctx context.Context) ([]match.ProPlayer, error) {
	var payload []proPlayerDTO
	if err := c.doJSON(ctx, "/proPlayers", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch pro players: %w", err)
	}

	out := make([]match.ProPlayer, 0, len(payload))
	for _, item := range payload {
		if !item.AccountID.Set {
			continue
		}
		out = append(out, match.ProPlayer{
			AccountID: item.AccountID.Value,
			Name:      strings.TrimSpace(item.Name),
		})
	}
	return out, nil
}

func (c *Client) ListMatchIDs(ctx context.Context, accountID int64, minPatch string) ([]int64, error) {
	sql, err := matchIDsQuery(accountID, minPatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	var payload explorerEnvelope
	if err := c.doJSON(ctx, "/explorer", map[string]string{"sql": sql}, &payload); err != nil {
		return nil, fmt.Errorf("fetch match ids account_id=%d: %w", accountID, err)
	}
	if payload.Err != nil && strings.TrimSpace(*payload.Err) != "" {
		return nil, fmt.Errorf("explorer query failed: %s", abbreviateBody([]byte(*payload.Err)))
	}

	ids := make([]int64, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		if !row.MatchID.Set {
			continue
		}
		ids = append(ids, row.MatchID.Value)
	}
	return ids, nil
}

func (c *Client) GetMatch(ctx context.Context, matchID int64) (match.MatchRecord, error) {
	if matchID <= 0 {
		return match.MatchRecord{}, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload matchDTO
	if err := c.doJSON(ctx, "/matches/"+strconv.FormatInt(matchID, 10), nil, &payload); err != nil {
		return match.MatchRecord{}, fmt.Errorf("fetch match id=%d: %w", matchID, err)
	}
	return payload.toDomain(), nil
}

func (c *Client) ListPatches(ctx context.Context) ([]match.Patch, error) {
	var payload []patchDTO
	if err := c.doJSON(ctx, "/constants/patch", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch patches: %w", err)
	}

	out := make([]match.Patch, 0, len(payload))
	for _, item := range payload {
		if !item.ID.Set || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, match.Patch{
			ID:   int(item.ID.Value),
			Name: strings.TrimSpace(item.Name),
			Date: item.Date,
		})
	}
	return out, nil
}

func (c *Client) ListHeroes(ctx context.Context) ([]match.Hero, error) {
	var payload map[string]heroDTO
	if err := c.doJSON(ctx, "/constants/heroes", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch heroes: %w", err)
	}

	out := make([]match.Hero, 0, len(payload))
	for _, item := range payload {
		if !item.ID.Set {
			continue
		}
		out = append(out, match.Hero{ID: int(item.ID.Value), LocalizedName: item.LocalizedName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "opendota circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.DoContext(ctx, fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, isTransient)
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrMalformedRecord, crerr.Wrapf(err, "decode provider payload path=%s", path))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		backoff := time.Duration(attempt+1) * time.Second
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errOpenDotaTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errOpenDotaTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: %w: provider status=429 body=%s", errOpenDotaTransient, usecase.ErrRateLimited, abbreviateBody(raw))
				backoff = retryAfter(resp.Header.Get("Retry-After"))
				c.logger.WarnContext(ctx, "opendota rate limited", "wait", backoff.String(), "attempt", attempt+1)
			case resp.StatusCode >= http.StatusInternalServerError:
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOpenDotaTransient, resp.StatusCode, abbreviateBody(raw))
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: provider status=404 url=%s", usecase.ErrNotFound, redactAPIURL(fullURL))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "opendota request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

// retryAfter reads a Retry-After header in seconds or HTTP-date form.
func retryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return defaultRetryAfter
	}

	wait := defaultRetryAfter
	if seconds, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(seconds) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		wait = time.Until(at)
	}

	switch {
	case wait < 0:
		return 0
	case wait > maxRetryAfter:
		return maxRetryAfter
	default:
		return wait
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
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

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errOpenDotaTransient)
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "api_key=REDACTED")
	}
	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
