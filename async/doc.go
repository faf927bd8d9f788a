// Package async provides Future, a single-settlement result that can be
// consumed by blocking (Await), by polling (Result, Done) or through a
// node-style Callback, all observing the same outcome of one operation.
//
//	f := async.Go(func() (Payload, error) { return fetch(ctx) })
//	async.Nodeify(f, func(p Payload, err error) { ... })
//	p, err := f.Await(ctx)
package async
