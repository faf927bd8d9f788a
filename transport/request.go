package transport

import (
	"context"
	"maps"

	"github.com/kbukum/rallykit/async"
)

// Payload is a decoded JSON object.
type Payload = map[string]any

// Callback is the node-style completion callback accepted by every verb.
type Callback = async.Callback[Payload]

// Auth carries credentials. APIKey wins over Username/Password.
type Auth struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
}

// IsZero reports whether no credential is set.
func (a Auth) IsZero() bool {
	return a.Username == "" && a.Password == "" && a.APIKey == ""
}

// RequestOptions are per-request transport overrides.
type RequestOptions struct {
	// Headers override the client's default headers.
	Headers map[string]string `json:"headers,omitempty"`
	// Qs is additional query-string input. The translator merges it into
	// Request.Qs before the request reaches the transport.
	Qs map[string]any `json:"qs,omitempty"`
	// Auth replaces the client's credentials for this request.
	Auth *Auth `json:"-"`
}

// Request describes one WSAPI call.
type Request struct {
	// URL is relative to the webservice root, or an absolute ref URL.
	URL string `json:"url"`
	// Qs is the query string.
	Qs map[string]any `json:"qs,omitempty"`
	// JSON is the request body for POST and PUT.
	JSON map[string]any `json:"json,omitempty"`
	// Options are passed through from the operation.
	Options RequestOptions `json:"-"`
}

// withQuery returns a shallow copy of r with key=value added to Qs.
func (r *Request) withQuery(key string, value any) *Request {
	clone := *r
	clone.Qs = make(map[string]any, len(r.Qs)+1)
	maps.Copy(clone.Qs, r.Qs)
	clone.Qs[key] = value
	return &clone
}

// Transport is the HTTP capability the REST client is built on. Each verb
// starts exactly one request and returns its Future; a non-nil callback
// is invoked once with the same outcome.
type Transport interface {
	Get(ctx context.Context, req *Request, cb Callback) *async.Future[Payload]
	Put(ctx context.Context, req *Request, cb Callback) *async.Future[Payload]
	Post(ctx context.Context, req *Request, cb Callback) *async.Future[Payload]
	Delete(ctx context.Context, req *Request, cb Callback) *async.Future[Payload]
}
