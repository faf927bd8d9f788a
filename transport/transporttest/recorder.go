// Package transporttest provides a recording transport.Transport for tests.
package transporttest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/rallykit/async"
	"github.com/kbukum/rallykit/transport"
)

// Call is one recorded transport invocation.
type Call struct {
	Method      string
	Request     *transport.Request
	HasCallback bool
	Future      *async.Future[transport.Payload]
}

type outcome struct {
	payload transport.Payload
	err     error
}

// Recorder records every call and settles it asynchronously with the
// outcome configured for its method. Unconfigured methods resolve with an
// empty payload.
type Recorder struct {
	// Delay postpones every settlement.
	Delay time.Duration

	mu       sync.Mutex
	calls    []Call
	outcomes map[string]outcome
}

var _ transport.Transport = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{outcomes: make(map[string]outcome)}
}

// Yield sets the outcome of later calls to method (http.MethodGet, ...).
func (r *Recorder) Yield(method string, payload transport.Payload, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[method] = outcome{payload: payload, err: err}
	return r
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsFor returns the recorded calls to method.
func (r *Recorder) CallsFor(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the most recent call and false when there is none.
func (r *Recorder) Last() (Call, bool) {
	calls := r.Calls()
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

func (r *Recorder) Get(ctx context.Context, req *transport.Request, cb transport.Callback) *async.Future[transport.Payload] {
	return r.record(ctx, http.MethodGet, req, cb)
}

func (r *Recorder) Put(ctx context.Context, req *transport.Request, cb transport.Callback) *async.Future[transport.Payload] {
	return r.record(ctx, http.MethodPut, req, cb)
}

func (r *Recorder) Post(ctx context.Context, req *transport.Request, cb transport.Callback) *async.Future[transport.Payload] {
	return r.record(ctx, http.MethodPost, req, cb)
}

func (r *Recorder) Delete(ctx context.Context, req *transport.Request, cb transport.Callback) *async.Future[transport.Payload] {
	return r.record(ctx, http.MethodDelete, req, cb)
}

func (r *Recorder) record(_ context.Context, method string, req *transport.Request, cb transport.Callback) *async.Future[transport.Payload] {
	r.mu.Lock()
	out, ok := r.outcomes[method]
	delay := r.Delay
	r.mu.Unlock()
	if !ok {
		out = outcome{payload: transport.Payload{}}
	}

	f := async.Go(func() (transport.Payload, error) {
		if delay > 0 {
			time.Sleep(delay)
		}
		return out.payload, out.err
	})
	async.Nodeify(f, cb)

	r.mu.Lock()
	r.calls = append(r.calls, Call{Method: method, Request: req, HasCallback: cb != nil, Future: f})
	r.mu.Unlock()
	return f
}
