package restapi

import (
	"fmt"

	"github.com/kbukum/rallykit/async"
	"github.com/kbukum/rallykit/transport"
)

// Result is the normalized shape of a response. Errors and Warnings are
// never nil; Object holds every other key of the response.
type Result struct {
	Errors   []string       `json:"Errors"`
	Warnings []string       `json:"Warnings"`
	Object   map[string]any `json:"Object"`
}

// ResultCallback receives the outcome of Get and Query.
type ResultCallback = async.Callback[Result]

// Normalize lifts Errors and Warnings out of p and places the rest under
// Object. p is not modified.
func Normalize(p transport.Payload) Result {
	r := Result{
		Errors:   messages(p["Errors"]),
		Warnings: messages(p["Warnings"]),
		Object:   make(map[string]any, len(p)),
	}
	for k, v := range p {
		if k == "Errors" || k == "Warnings" {
			continue
		}
		r.Object[k] = v
	}
	return r
}

// NormalizeFuture returns a Future settled with the normalized result of f.
// Rejections pass through unchanged. Get and Query use it; callers may
// apply it to the futures of Create, Update and Delete.
func NormalizeFuture(f *async.Future[transport.Payload]) *async.Future[Result] {
	return async.Then(f, func(p transport.Payload) (Result, error) {
		return Normalize(p), nil
	})
}

func messages(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
