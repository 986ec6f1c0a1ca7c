// Package catalogclient is a typed HTTP client for the catalog service.
//
// Every request goes through a token-bucket rate limiter and a circuit
// breaker. GET requests are retried on transient failures with a constant
// delay; writes are sent once.
package catalogclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sethvargo/go-retry"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"mediahub/internal/config"
	"mediahub/internal/logging"
	"mediahub/internal/metrics"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

type Options struct {
	BaseURL string
	// HTTPClient overrides the default client. Its Timeout bounds each attempt.
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// RetryAttempts is the total number of tries for a GET, including the first.
	RetryAttempts int
	RetryDelay    time.Duration
	// ListTimeout bounds ListMedia and ListUsers across all attempts.
	ListTimeout time.Duration
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit float64
	// BreakerFailures consecutive failures open the circuit for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func (o *Options) applyDefaults() {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.ListTimeout <= 0 {
		o.ListTimeout = 10 * time.Second
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 5
	}
	if o.BreakerTimeout <= 0 {
		o.BreakerTimeout = 30 * time.Second
	}
}

// Client is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]byte]
	attempts    int
	delay       time.Duration
	listTimeout time.Duration
}

func New(opts Options) *Client {
	opts.applyDefaults()

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  httpClient,
		limiter:     limiter,
		breaker:     breaker,
		attempts:    opts.RetryAttempts,
		delay:       opts.RetryDelay,
		listTimeout: opts.ListTimeout,
	}
}

// NewFromConfig builds a client from the shared configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(Options{
		BaseURL:        cfg.CatalogURL,
		RequestTimeout: cfg.RequestTimeout,
		RetryAttempts:  cfg.RetryAttempts,
		RetryDelay:     cfg.RetryDelay,
		ListTimeout:    cfg.ListTimeout,
		RateLimit:      cfg.RateLimit,
	})
}

// countsAsSuccess keeps answers that prove the server is healthy, such as
// 404 or a rejected payload, from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || IsAborted(err) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se)
}

// ListMedia returns every media item in server order.
func (c *Client) ListMedia(ctx context.Context) ([]Media, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	var list []Media
	if err := c.get(ctx, "/media", &list); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return list, nil
}

// GetMedia returns one media item including its subscriber ids.
func (c *Client) GetMedia(ctx context.Context, id int64) (*Media, error) {
	var m Media
	if err := c.get(ctx, fmt.Sprintf("/media/%d", id), &m); err != nil {
		return nil, fmt.Errorf("get media %d: %w", id, err)
	}
	return &m, nil
}

func (c *Client) MediaUserIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, fmt.Sprintf("/media/%d/users", id), &ids); err != nil {
		return nil, fmt.Errorf("get subscribers of media %d: %w", id, err)
	}
	return ids, nil
}

// HasSubscribers asks for at most one subscriber id.
func (c *Client) HasSubscribers(ctx context.Context, id int64) (bool, error) {
	var ids []int64
	if err := c.get(ctx, fmt.Sprintf("/media/%d/users?limit=1", id), &ids); err != nil {
		return false, fmt.Errorf("check subscribers of media %d: %w", id, err)
	}
	return len(ids) > 0, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	var users []User
	if err := c.get(ctx, "/user", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.get(ctx, fmt.Sprintf("/user/%d", id), &u); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (c *Client) UserMediaIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, fmt.Sprintf("/user/%d/media", id), &ids); err != nil {
		return nil, fmt.Errorf("get media of user %d: %w", id, err)
	}
	return ids, nil
}

func (c *Client) CreateMedia(ctx context.Context, m Media) (*Media, error) {
	var out Media
	if err := c.post(ctx, "/media", m, &out); err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, u User) (*User, error) {
	var out User
	if err := c.post(ctx, "/user", u, &out); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &out, nil
}

func (c *Client) Subscribe(ctx context.Context, userID, mediaID int64) (*UserMedia, error) {
	var out UserMedia
	body := UserMedia{UserID: userID, MediaID: mediaID}
	if err := c.post(ctx, "/user-media", body, &out); err != nil {
		return nil, fmt.Errorf("subscribe user %d to media %d: %w", userID, mediaID, err)
	}
	return &out, nil
}

// get fetches path with retries and decodes the body into dst.
func (c *Client) get(ctx context.Context, path string, dst any) error {
	backoff := retry.WithMaxRetries(uint64(c.attempts-1), retry.NewConstant(c.delay))

	attempt := 0
	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.execute(ctx, http.MethodGet, path, nil)
		if err != nil {
			if IsTransient(err) {
				logging.Warn().Err(err).Str("path", path).Int("attempt", attempt).Msg("transient failure")
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return err
	}
	return decode(body, path, dst)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	body, err := c.execute(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return decode(body, path, out)
}

func decode(body []byte, path string, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		metrics.ClientRequests.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// execute runs a single attempt through the breaker.
func (c *Client) execute(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, method, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.ClientRequests.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.ClientRequests.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.ClientRequests.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransient, path, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		metrics.ClientRequests.WithLabelValues("ok").Inc()
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		metrics.ClientRequests.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	case shouldRetry(resp.StatusCode):
		metrics.ClientRequests.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: %s %s: HTTP %d", ErrTransient, method, path, resp.StatusCode)
	default:
		metrics.ClientRequests.WithLabelValues("rejected").Inc()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
