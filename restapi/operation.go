package restapi

import "github.com/kbukum/rallykit/transport"

// Verb names a client operation.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
	VerbGet    Verb = "get"
	VerbQuery  Verb = "query"
)

// Scope qualifies a call with a workspace and project. Up and Down emit
// projectScopeUp / projectScopeDown when set.
type Scope struct {
	Workspace string `json:"workspace,omitempty" yaml:"workspace" mapstructure:"workspace"`
	Project   string `json:"project,omitempty" yaml:"project" mapstructure:"project"`
	Up        *bool  `json:"up,omitempty" yaml:"up" mapstructure:"up"`
	Down      *bool  `json:"down,omitempty" yaml:"down" mapstructure:"down"`
}

// Operation describes a create, update, delete or get call.
type Operation struct {
	// Type is the entity type for create, e.g. "defect".
	Type string
	// Ref identifies the object for update, delete and get: a path string,
	// a ref.Ref, a ref.Referencer or a map with a "_ref" key.
	Ref any
	// Data is the object to create or the fields to update.
	Data map[string]any
	// Fetch lists the fields to return. Empty means the server default.
	Fetch []string
	Scope Scope
	// Query holds extra query-string parameters for get. Writes ignore it;
	// they take extra parameters from RequestOptions.Qs.
	Query map[string]any
	// RequestOptions are passed to the transport; RequestOptions.Qs is
	// merged into the query string.
	RequestOptions transport.RequestOptions
}

// QueryOperation describes a query against a collection endpoint. Only
// a single page is requested.
type QueryOperation struct {
	Type  string
	Fetch []string
	Scope Scope
	// Where is a *query.Query, or any fmt.Stringer or string, rendered as
	// the query parameter.
	Where any
	Order string
	// Start is the 1-based start index; zero leaves it to the server.
	Start int
	// PageSize is the page size; zero leaves it to the server.
	PageSize       int
	Query          map[string]any
	RequestOptions transport.RequestOptions
}
