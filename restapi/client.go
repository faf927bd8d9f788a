package restapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/rallykit/async"
	"github.com/kbukum/rallykit/logger"
	"github.com/kbukum/rallykit/observability"
	"github.com/kbukum/rallykit/transport"
)

// Client translates operations into transport requests. Create, Update and
// Delete return the transport's Future unchanged; Get and Query return a
// Future of the normalized Result. Every method also accepts an optional
// callback, invoked once with the same outcome as the returned Future.
//
// A malformed operation fails synchronously with an *errors.AppError and no
// request is made.
type Client struct {
	config    Config
	transport transport.Transport
	owned     *transport.Client
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTransport uses t instead of an HTTP transport built from Config.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the logger. Defaults to logger.Get("restapi").
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records transport metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client. Two clients never share state.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("restapi")
	}
	if c.transport == nil {
		tc, err := transport.New(cfg.TransportConfig(),
			transport.WithLogger(c.log.WithComponent("transport")),
			transport.WithMetrics(c.metrics),
		)
		if err != nil {
			return nil, err
		}
		c.transport, c.owned = tc, tc
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.config }

// Transport returns the transport requests are issued on.
func (c *Client) Transport() transport.Transport { return c.transport }

// Close releases the HTTP transport the client created, if any.
func (c *Client) Close() {
	if c.owned != nil {
		c.owned.Close()
	}
}

// Create posts op.Data as a new op.Type object.
func (c *Client) Create(ctx context.Context, op Operation, cb transport.Callback) (*async.Future[transport.Payload], error) {
	req, err := TranslateCreate(op)
	if err != nil {
		return nil, err
	}
	ctx = c.begin(ctx, VerbCreate, req)
	return c.transport.Post(ctx, req, cb), nil
}

// Update puts op.Data onto the object at op.Ref.
func (c *Client) Update(ctx context.Context, op Operation, cb transport.Callback) (*async.Future[transport.Payload], error) {
	req, err := TranslateUpdate(op)
	if err != nil {
		return nil, err
	}
	ctx = c.begin(ctx, VerbUpdate, req)
	return c.transport.Put(ctx, req, cb), nil
}

// Delete removes the object at op.Ref.
func (c *Client) Delete(ctx context.Context, op Operation, cb transport.Callback) (*async.Future[transport.Payload], error) {
	req, err := TranslateDelete(op)
	if err != nil {
		return nil, err
	}
	ctx = c.begin(ctx, VerbDelete, req)
	return c.transport.Delete(ctx, req, cb), nil
}

// Get reads the object at op.Ref.
func (c *Client) Get(ctx context.Context, op Operation, cb ResultCallback) (*async.Future[Result], error) {
	req, err := TranslateGet(op)
	if err != nil {
		return nil, err
	}
	ctx = c.begin(ctx, VerbGet, req)
	return async.Nodeify(NormalizeFuture(c.transport.Get(ctx, req, nil)), cb), nil
}

// Query reads one page of op.Type objects.
func (c *Client) Query(ctx context.Context, op QueryOperation, cb ResultCallback) (*async.Future[Result], error) {
	req, err := TranslateQuery(op)
	if err != nil {
		return nil, err
	}
	ctx = c.begin(ctx, VerbQuery, req)
	return async.Nodeify(NormalizeFuture(c.transport.Get(ctx, req, nil)), cb), nil
}

// begin tags ctx with a request id and the verb, and logs the request.
func (c *Client) begin(ctx context.Context, verb Verb, req *transport.Request) context.Context {
	if logger.RequestIDFromContext(ctx) == "" {
		ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	}
	ctx = logger.ContextWithVerb(ctx, string(verb))
	c.log.WithContext(ctx).Debug("wsapi request", logger.Fields(
		logger.FieldURL, req.URL,
		"qs", req.Qs,
	))
	return ctx
}
