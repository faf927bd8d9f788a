// Package transport is the HTTP layer under the REST client. It exposes
// the Transport interface (Get, Put, Post, Delete over a Request) and Client,
// its net/http implementation for the Rally WSAPI.
//
// Client resolves request URLs against <server>/slm/webservice/<version>,
// sends JSON with the configured headers and credentials, keeps session
// cookies, fetches the security token writes need under basic auth, and
// unwraps the single top-level object of each response. A response whose
// Errors array is non-empty rejects with ResultErrors.
//
// Every verb returns an async.Future and also invokes an optional callback
// with the same outcome:
//
//	c, err := transport.New(transport.Config{Auth: transport.Auth{APIKey: key}})
//	f := c.Get(ctx, &transport.Request{URL: "/defect/1234"}, nil)
//	payload, err := f.Await(ctx)
package transport
