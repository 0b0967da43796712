package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"proffy-mobile/config"
	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/model"
)

var (
	// ErrNoResults is returned when the service answers with a literal null body.
	ErrNoResults = errors.New("listing returned no results")
	// ErrRequestFailed covers transport failures, non-2xx answers and undecodable bodies.
	ErrRequestFailed = errors.New("listing request failed")
)

// Criteria are the filter inputs of the teacher list. Empty fields are sent
// as empty query parameters, never omitted.
type Criteria struct {
	Subject string `json:"subject"`
	WeekDay string `json:"week_day"`
	Time    string `json:"time"`
}

// Query encodes the criteria as the /classes query string.
func (c Criteria) Query() url.Values {
	return url.Values{
		"subject":  {c.Subject},
		"week_day": {c.WeekDay},
		"time":     {c.Time},
	}
}

// Client queries the remote listing service.
type Client struct {
	baseURL string
	headers map[string]string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewClient creates a client for cfg.BaseURL. m may be nil.
func NewClient(cfg *config.ListingConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Warn("invalid proxy URL, listing client will not use a proxy",
				zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: cfg.Headers,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
		metrics: m,
	}
}

// Search issues exactly one GET /classes request. The returned slice is the
// response array verbatim.
func (c *Client) Search(ctx context.Context, criteria Criteria) ([]model.Teacher, error) {
	start := time.Now()
	teachers, err := c.search(ctx, criteria)

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrNoResults):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.ObserveListing(outcome, time.Since(start))

	if err != nil {
		c.log.Debug("listing query failed", zap.Any("criteria", criteria), zap.Error(err))
		return nil, err
	}
	c.log.Debug("listing query succeeded", zap.Any("criteria", criteria), zap.Int("teachers", len(teachers)))
	return teachers, nil
}

func (c *Client) search(ctx context.Context, criteria Criteria) ([]model.Teacher, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrRequestFailed, err)
	}

	endpoint := c.baseURL + "/classes?" + criteria.Query().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: received status code %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRequestFailed, err)
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, ErrNoResults
	}

	var teachers []model.Teacher
	if err := json.Unmarshal(body, &teachers); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %w", ErrRequestFailed, err)
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}
	return teachers, nil
}
