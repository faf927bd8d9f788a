package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/rallykit/async"
	"github.com/kbukum/rallykit/logger"
	"github.com/kbukum/rallykit/observability"
	"github.com/kbukum/rallykit/provider"
	"github.com/kbukum/rallykit/version"
)

// Client is the HTTP implementation of Transport. It is safe for
// concurrent use; each instance owns its cookie jar and security tokens.
type Client struct {
	config   Config
	base     string
	http     *http.Client
	log      *logger.Logger
	metrics  *observability.Metrics
	exchange provider.RequestResponse[*call, Payload]

	mu     sync.Mutex
	tokens map[Auth]string
}

var _ Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to logger.Get("transport").
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHTTPClient replaces the underlying *http.Client. Its Jar is kept
// as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// call is one HTTP exchange flowing through the provider chain.
type call struct {
	method string
	req    *Request
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg, base: cfg.BaseURL(), tokens: make(map[Auth]string)}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("transport")
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
		if cfg.Jar {
			jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if err != nil {
				return nil, fmt.Errorf("transport: cookie jar: %w", err)
			}
			c.http.Jar = jar
		}
	}

	c.exchange = provider.Chain(
		provider.WithLogging[*call, Payload](c.log),
		provider.WithTracing[*call, Payload]("rallykit"),
		provider.WithMetrics[*call, Payload](c.metrics),
		provider.WithResilience[*call, Payload](c.resilienceConfig()),
	)(provider.Func(cfg.Name, c.do))
	return c, nil
}

func (c *Client) resilienceConfig() provider.ResilienceConfig {
	rc := provider.ResilienceConfig{
		Retry:       c.config.Retry,
		RateLimiter: c.config.RateLimit,
		Bulkhead:    c.config.Bulkhead,
	}
	if c.config.CircuitBreaker != nil {
		cb := *c.config.CircuitBreaker
		if cb.Name == "" {
			cb.Name = c.config.Name
		}
		if cb.IsFailure == nil {
			cb.IsFailure = isOutage
		}
		rc.CircuitBreaker = &cb
	}
	return rc
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, req *Request, cb Callback) *async.Future[Payload] {
	return c.send(ctx, http.MethodGet, req, cb)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, req *Request, cb Callback) *async.Future[Payload] {
	return c.send(ctx, http.MethodPut, req, cb)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, req *Request, cb Callback) *async.Future[Payload] {
	return c.send(ctx, http.MethodPost, req, cb)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, req *Request, cb Callback) *async.Future[Payload] {
	return c.send(ctx, http.MethodDelete, req, cb)
}

func (c *Client) send(ctx context.Context, method string, req *Request, cb Callback) *async.Future[Payload] {
	f := async.Go(func() (Payload, error) {
		return c.execute(ctx, method, req)
	})
	return async.Nodeify(f, cb)
}

// IsAvailable reports false while the circuit breaker is open.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.exchange.IsAvailable(ctx)
}

// BaseURL returns the webservice root requests are resolved against.
func (c *Client) BaseURL() string { return c.base }

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// execute runs one verb, adding the security token to writes that need it.
func (c *Client) execute(ctx context.Context, method string, req *Request) (Payload, error) {
	if req == nil {
		return nil, NewValidationError("nil request")
	}
	// POST is sent once; only idempotent verbs are retried.
	sendCtx := ctx
	if method == http.MethodPost {
		sendCtx = provider.WithoutRetry(ctx)
	}
	if !c.needsToken(method, req) {
		return c.exchange.Execute(sendCtx, &call{method: method, req: req})
	}

	token, err := c.securityToken(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := c.exchange.Execute(sendCtx, &call{method: method, req: req.withQuery("key", token)})
	if !isInvalidKey(payload, err) {
		return payload, err
	}

	// The session expired; fetch a fresh token once.
	c.clearToken(c.authFor(req), token)
	if token, err = c.securityToken(ctx, req); err != nil {
		return nil, err
	}
	return c.exchange.Execute(sendCtx, &call{method: method, req: req.withQuery("key", token)})
}

// do performs a single HTTP exchange.
func (c *Client) do(ctx context.Context, in *call) (Payload, error) {
	httpReq, err := c.buildRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, in.method)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, httpReq.URL.Redacted())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return nil, classErr
	}
	return c.decode(ctx, in, resp.StatusCode, body)
}

// decode parses and unwraps the response object and applies the Errors and
// Warnings arrays.
func (c *Client) decode(ctx context.Context, in *call, status int, body []byte) (Payload, error) {
	var raw Payload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewDecodeError(status, body, err)
	}
	if raw == nil {
		return nil, NewDecodeError(status, body, errors.New("response is not a JSON object"))
	}
	payload := unwrap(raw)

	if warnings := stringList(payload["Warnings"]); len(warnings) > 0 {
		c.log.WithContext(ctx).Warn("wsapi warnings", logger.Fields(
			logger.FieldMethod, in.method,
			logger.FieldURL, in.req.URL,
			"warnings", warnings,
		))
	}
	if errs := stringList(payload["Errors"]); len(errs) > 0 && !c.config.AllowResultErrors {
		return nil, ResultErrors(errs)
	}
	return payload, nil
}

func (c *Client) buildRequest(ctx context.Context, in *call) (*http.Request, error) {
	target, err := c.resolveURL(in.req.URL, in.req.Qs)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("build url: %v", err))
	}

	var body io.Reader
	if in.req.JSON != nil {
		data, err := json.Marshal(in.req.JSON)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range in.req.Options.Headers {
		httpReq.Header.Set(k, v)
	}

	auth := c.authFor(in.req)
	switch {
	case auth.APIKey != "":
		httpReq.Header.Set("ZSESSIONID", auth.APIKey)
	case auth.Username != "":
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
	return httpReq, nil
}

func (c *Client) authFor(req *Request) Auth {
	if req.Options.Auth != nil {
		return *req.Options.Auth
	}
	return c.config.Auth
}

// resolveURL joins relative paths onto the webservice root and encodes qs.
// Absolute URLs are used as-is.
func (c *Client) resolveURL(path string, qs map[string]any) (string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.base + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if len(qs) > 0 {
		q := u.Query()
		for k, v := range qs {
			if s, ok := formatQueryValue(v); ok {
				q.Set(k, s)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// formatQueryValue renders a query-string value; nil is skipped.
func formatQueryValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []string:
		return strings.Join(val, ","), true
	case bool:
		return strconv.FormatBool(val), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// unwrap returns the object inside a single-key wrapper such as
// {"OperationResult": {...}} or {"Defect": {...}}.
func unwrap(p Payload) Payload {
	if len(p) != 1 {
		return p
	}
	for _, v := range p {
		if inner, ok := v.(map[string]any); ok {
			return inner
		}
	}
	return p
}

// stringList reads a JSON array of strings.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
