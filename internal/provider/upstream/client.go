// Package upstream performs authenticated GET requests against the Kinopoisk
// APIs. It never fails past its boundary: every non-success response becomes an
// empty body, except cancellation and exhausted rate-limit retries.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

const (
	apiKeyHeader   = "X-API-KEY"
	maxErrorBody   = 64 << 10
	defaultTimeout = 30 * time.Second
)

var errThrottled = errors.New("too many requests")

// Outcome classifies a non-2xx response
type Outcome int

const (
	OutcomeError Outcome = iota
	OutcomeEmpty
	OutcomeAuthFailed
	OutcomeQuota
	OutcomeThrottled
)

// Classifier maps a non-2xx status and its body to an outcome plus a message for the log
type Classifier func(status int, body []byte) (Outcome, string)

// RetryPolicy bounds the exponential backoff applied to throttled requests
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy starts at the two second pause Kinopoisk asks for and doubles it
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Client issues GET requests for one provider
type Client struct {
	name       string
	httpClient *http.Client
	logger     hclog.Logger
	activity   provider.ActivityRecorder
	token      func() string
	retry      RetryPolicy
	limiter    *rateLimiter
	classify   Classifier
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithActivity sets the recorder that receives auth and quota failures
func WithActivity(recorder provider.ActivityRecorder) Option {
	return func(c *Client) {
		c.activity = recorder
	}
}

// WithToken sets the credential source; it is read on every request
func WithToken(token func() string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRetry overrides the throttling retry policy
func WithRetry(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithRateLimit caps outgoing requests to maxRequests per window
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *Client) {
		c.limiter = newRateLimiter(maxRequests, window)
	}
}

// WithClassifier sets the provider-specific status classification
func WithClassifier(classify Classifier) Option {
	return func(c *Client) {
		if classify != nil {
			c.classify = classify
		}
	}
}

// New creates a client for the named provider
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     hclog.NewNullLogger(),
		retry:      DefaultRetryPolicy(),
		classify:   DefaultClassifier,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named(name)
	return c
}

// HasToken reports whether a credential is configured right now
func (c *Client) HasToken() bool {
	return c.currentToken() != ""
}

func (c *Client) currentToken() string {
	if c.token == nil {
		return ""
	}
	return strings.TrimSpace(c.token())
}

// Response is the outcome of one GET
type Response struct {
	Body string
	// Failed is set when upstream rejected the request or never answered,
	// as opposed to answering with no data.
	Failed bool
}

// Get fetches rawURL and returns the response body. An empty body with a nil
// error means no data; the reason has already been logged. The returned error
// is either a context error or wraps provider.ErrStillThrottled.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.Fetch(ctx, rawURL)
	return resp.Body, err
}

// Fetch is Get that also reports whether an empty body is a failure
func (c *Client) Fetch(ctx context.Context, rawURL string) (Response, error) {
	token := c.currentToken()
	if token == "" {
		c.logger.Warn("token is not configured, skipping request", "url", rawURL)
		return Response{Failed: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return Response{Failed: true}, err
	}

	var resp Response
	attempts := 0
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempts++
		if err := c.limiter.wait(ctx); err != nil {
			return err
		}
		var err error
		resp, err = c.attempt(ctx, rawURL, token)
		return err
	})

	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, errThrottled):
		c.logger.Error("still throttled, giving up", "url", rawURL, "attempts", attempts)
		return Response{Failed: true}, provider.ThrottledError(c.name, rawURL, attempts)
	default:
		return Response{Failed: true}, err
	}
}

func (c *Client) backoff() retry.Backoff {
	base := c.retry.BaseDelay
	if base <= 0 {
		base = DefaultRetryPolicy().BaseDelay
	}
	b := retry.NewExponential(base)
	if c.retry.MaxDelay > 0 {
		b = retry.WithCappedDuration(c.retry.MaxDelay, b)
	}
	return retry.WithMaxRetries(c.retry.MaxRetries, b)
}

// attempt performs a single request; only throttling and cancellation surface as errors
func (c *Client) attempt(ctx context.Context, rawURL, token string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Error("failed to build request", "url", rawURL, "error", err)
		return Response{Failed: true}, nil
	}
	req.Header.Set(apiKeyHeader, token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending request", "url", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{Failed: true}, ctxErr
		}
		c.logger.Error("request failed", "url", rawURL, "error", err)
		return Response{Failed: true}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Response{Failed: true}, ctxErr
			}
			c.logger.Error("failed to read response", "url", rawURL, "error", err)
			return Response{Failed: true}, nil
		}
		return Response{Body: string(data)}, nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	outcome, message := c.classify(resp.StatusCode, data)

	switch outcome {
	case OutcomeEmpty:
		c.logger.Info("no data", "url", rawURL, "status", resp.StatusCode)
		return Response{}, nil
	case OutcomeAuthFailed:
		c.reject(rawURL, &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeAuthFailed,
			Message:  fmt.Sprintf("Token '%s' is invalid", maskToken(token)),
		}, "Token is invalid")
		return Response{Failed: true}, nil
	case OutcomeQuota:
		c.reject(rawURL, &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeQuotaExceeded,
			Message:  fmt.Sprintf("Request limit exceeded for token '%s'. Either wait or extend the plan", maskToken(token)),
		}, "Request limit exceeded")
		return Response{Failed: true}, nil
	case OutcomeThrottled:
		perr := &provider.ProviderError{
			Provider:   c.name,
			Code:       provider.CodeRateLimited,
			Message:    "too many requests",
			Retry:      true,
			RetryAfter: int(c.retry.BaseDelay / time.Second),
		}
		c.logger.Warn("rate limited, backing off", "url", rawURL, "error", perr)
		return Response{Failed: true}, retry.RetryableError(errThrottled)
	default:
		c.logger.Error("upstream error", "url", rawURL, "status", resp.StatusCode, "message", message)
		return Response{Failed: true}, nil
	}
}

// reject logs an authoritative rejection and records it to the activity log exactly once
func (c *Client) reject(rawURL string, perr *provider.ProviderError, short string) {
	c.logger.Error(short, "url", rawURL, "code", perr.Code)
	if c.activity == nil {
		return
	}
	c.activity.Record(provider.ActivityEvent{
		Provider:      c.name,
		Code:          perr.Code,
		Overview:      perr.Message,
		ShortOverview: short,
	})
}

// DefaultClassifier treats 401 as an auth failure, 404 as no data and 429 as throttling
func DefaultClassifier(status int, body []byte) (Outcome, string) {
	switch status {
	case http.StatusUnauthorized:
		return OutcomeAuthFailed, ""
	case http.StatusNotFound:
		return OutcomeEmpty, ""
	case http.StatusTooManyRequests:
		return OutcomeThrottled, ""
	default:
		return OutcomeError, strings.TrimSpace(string(body))
	}
}

// BuildURL joins base and path and encodes query
func BuildURL(base, path string, query url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:3] + "***" + token[len(token)-3:]
}
