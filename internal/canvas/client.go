// Package canvas provides a Canvas LMS REST client for the read-only tools.
package canvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/client-go/util/flowcontrol"

	"github.com/tranphat180603/canvas-cli/internal/telemetry"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

const (
	apiPrefix       = "/api/v1"
	defaultPerPage  = 100
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 32 << 20
)

var tracer = otel.Tracer("github.com/tranphat180603/canvas-cli/internal/canvas")

// Options configures clients created by a Factory.
type Options struct {
	HTTPClient *http.Client
	// Timeout bounds a single HTTP request, including reading its body.
	Timeout time.Duration
	Retry   RetryPolicy
	// QPS and Burst configure the client-side throttle. QPS <= 0 disables it.
	QPS     float32
	Burst   int
	PerPage int
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout: defaultTimeout,
		Retry:   DefaultRetryPolicy(),
		QPS:     10,
		Burst:   20,
		PerPage: defaultPerPage,
	}
}

// Factory creates per-credential clients that share one HTTP transport and throttle.
type Factory struct {
	opts    Options
	limiter flowcontrol.RateLimiter
}

// NewFactory creates a client factory.
func NewFactory(opts Options) *Factory {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f := &Factory{opts: opts}
	if opts.QPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		f.limiter = flowcontrol.NewTokenBucketRateLimiter(opts.QPS, burst)
	}
	return f
}

// New returns a client for auth. It fails with ErrAuth when the credentials
// are unusable.
func (f *Factory) New(auth types.AuthContext) (*Client, error) {
	if err := Validate(auth); err != nil {
		return nil, err
	}
	return &Client{
		apiBase: APIBase(auth),
		token:   auth.AccessToken,
		opts:    f.opts,
		limiter: f.limiter,
	}, nil
}

// Validate checks that auth carries a token and an absolute http(s) URL.
func Validate(auth types.AuthContext) error {
	if strings.TrimSpace(auth.BaseURL) == "" {
		return fmt.Errorf("%w: canvas base URL is required", ErrAuth)
	}
	if strings.TrimSpace(auth.AccessToken) == "" {
		return fmt.Errorf("%w: canvas access token is required", ErrAuth)
	}
	u, err := url.Parse(strings.TrimSpace(auth.BaseURL))
	if err != nil {
		return fmt.Errorf("%w: invalid canvas base URL: %v", ErrAuth, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: canvas base URL must be an absolute http(s) URL", ErrAuth)
	}
	return nil
}

// APIBase returns the REST root for auth, appending /api/v1 only when the
// caller did not already include it.
func APIBase(auth types.AuthContext) string {
	base := strings.TrimRight(strings.TrimSpace(auth.BaseURL), "/")
	if strings.HasSuffix(base, apiPrefix) {
		return base
	}
	return base + apiPrefix
}

// Client issues authenticated requests against one Canvas instance.
type Client struct {
	apiBase string
	token   string
	opts    Options
	limiter flowcontrol.RateLimiter
}

type response struct {
	body   []byte
	header http.Header
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.apiBase + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) list(path string, query url.Values) *List {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(c.opts.PerPage))
	return newList(c, c.endpoint(path, query))
}

func (c *Client) getObject(ctx context.Context, path string, query url.Values) (Object, error) {
	resp, err := c.get(ctx, c.endpoint(path, query))
	if err != nil {
		return nil, err
	}
	return decodeObject(resp.body)
}

// get performs a GET with retries. Each attempt waits on the throttle and is
// bounded by the request timeout.
func (c *Client) get(ctx context.Context, rawURL string) (*response, error) {
	ctx, span := tracer.Start(ctx, "canvas.get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.url", redact(rawURL)))

	var (
		out     *response
		attempt int
	)
	err := c.opts.Retry.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			c.opts.Logger.Debug("retrying canvas request", "url", redact(rawURL), "attempt", attempt)
			c.opts.Metrics.UpstreamRetry()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("throttle: %w", err)
			}
		}
		resp, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	span.SetAttributes(attribute.Int("canvas.attempts", attempt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		c.opts.Metrics.UpstreamRequest("error", time.Since(start))
		return nil, fmt.Errorf("request to %s failed: %w", redact(rawURL), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	c.opts.Metrics.UpstreamRequest(strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", redact(rawURL), err)
	}
	if resp.StatusCode >= 300 {
		return nil, newAPIError(http.MethodGet, redact(rawURL), resp.StatusCode, body)
	}
	return &response{body: body, header: resp.Header}, nil
}

// redact strips the query string for errors, logs and spans.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
