// Package restapi is a client for the Rally WSAPI. It translates create,
// update, delete, get and query operations into HTTP requests and
// normalizes the responses.
//
// Translation rules:
//
//   - create: POST /<type>/create with body {<type>: data}
//   - update: PUT <ref> with body {<type parsed from ref>: data}
//   - delete: DELETE <ref>
//   - get:    GET <ref>
//   - query:  GET /<type> with query, order, start and pagesize
//
// The query string holds the computed keys (fetch joined with commas,
// workspace, project, projectScopeUp/Down and the query parameters), then
// Operation.Query, then RequestOptions.Qs. A passthrough key never replaces
// a computed one.
//
// Every method returns a Future and also accepts a callback:
//
//	c, err := restapi.New(restapi.Config{APIKey: key})
//	f, err := c.Get(ctx, restapi.Operation{Ref: "/defect/1234"}, nil)
//	res, err := f.Await(ctx)
//	fmt.Println(res.Object["Name"], res.Warnings)
package restapi
