// Package restclient is the request pipeline every domain service goes
// through. It attaches the stored bearer token to outgoing requests and
// transparently recovers once from a 401 by exchanging the refresh token for
// a new pair. Concurrent 401s share a single in-flight refresh.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jrsteele09/go-travel-client/internal/metrics"
)

const refreshPath = "/auth/refresh-token"

// TokenStore is the slice of the token store the pipeline needs.
type TokenStore interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SaveTokens(access, refresh string) error
	ClearAll() error
}

// Client issues JSON requests against a single API base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenStore
	logger     zerolog.Logger
	recorder   metrics.Recorder
	limiter    *rate.Limiter
	refresh    bool

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. Defaults to the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the metrics recorder. Defaults to a no-op recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithRateLimit throttles outgoing requests to r per second with the given
// burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithoutRefresh disables the 401 refresh flow. Used for hosts whose base
// URL has no refresh endpoint, such as the recommender service.
func WithoutRefresh() Option {
	return func(c *Client) { c.refresh = false }
}

// New creates a Client for baseURL. tokens may not be nil; pass a store even
// for unauthenticated use, since the pipeline decides per request whether a
// bearer header applies.
func New(baseURL string, tokens TokenStore, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[restclient.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[restclient.New] token store is required")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     log.Logger,
		recorder:   metrics.Nop{},
		refresh:    true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Get issues a GET request and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body (nil for an empty body) and
// returns the raw response body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Post] encode body")
		}
	}
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

// do runs the request protocol: attach bearer, send, and on a first 401
// refresh the token pair and re-issue exactly once. The retried request's
// outcome is final either way.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "[Client.do] rate limit wait")
		}
	}

	token, _ := c.tokens.AccessToken()
	status, body, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && c.refresh {
		refreshToken, ok := c.tokens.RefreshToken()
		if !ok {
			// No refresh token: the original 401 stands.
			return nil, &HTTPError{Status: status, Body: body}
		}

		newAccess, err := c.refreshTokens(ctx, refreshToken)
		if err != nil {
			// A failed refresh supersedes the original 401.
			if clearErr := c.tokens.ClearAll(); clearErr != nil {
				c.logger.Warn().Err(clearErr).Msg("failed to clear tokens after refresh failure")
			}
			return nil, err
		}

		status, body, err = c.send(ctx, method, path, query, payload, newAccess)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status > 299 {
		return nil, &HTTPError{Status: status, Body: body}
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, bearer string) (int, []byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.RecordNetworkFailure()
		c.logger.Error().Err(err).Str("url", requestURL).Msg("request failed without response")
		return 0, nil, &NetworkError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recorder.RecordNetworkFailure()
		return 0, nil, &NetworkError{URL: requestURL, Err: err}
	}
	c.recorder.RecordRequest(resp.StatusCode, time.Since(start))
	return resp.StatusCode, body, nil
}

// refreshTokens exchanges the refresh token for a new pair. Concurrent
// callers share one exchange through singleflight; every waiter observes the
// same outcome, so N expired requests trigger one refresh call.
func (c *Client) refreshTokens(ctx context.Context, refreshToken string) (string, error) {
	access, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.exchangeRefreshToken(ctx, refreshToken)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

type refreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] encode")
	}

	// The refresh call itself carries no bearer header.
	status, body, err := c.send(ctx, http.MethodPost, refreshPath, nil, payload, "")
	if err != nil {
		c.recorder.RecordRefresh(false)
		return "", err
	}
	if status < 200 || status > 299 {
		c.recorder.RecordRefresh(false)
		return "", &HTTPError{Status: status, Body: body}
	}

	var envelope Envelope[refreshResult]
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.recorder.RecordRefresh(false)
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] decode envelope")
	}
	pair := envelope.Result
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		c.recorder.RecordRefresh(false)
		return "", errors.New("[Client.exchangeRefreshToken] response missing tokens")
	}

	if err := c.tokens.SaveTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		c.recorder.RecordRefresh(false)
		return "", errors.Wrap(err, "[Client.exchangeRefreshToken] persist tokens")
	}
	c.recorder.RecordRefresh(true)
	c.logger.Debug().Msg("access token refreshed")
	return pair.AccessToken, nil
}
