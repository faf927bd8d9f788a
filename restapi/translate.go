package restapi

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/rallykit/errors"
	"github.com/kbukum/rallykit/ref"
	"github.com/kbukum/rallykit/transport"
	"github.com/kbukum/rallykit/validation"
)

// TranslateCreate builds POST /<type>/create with body {<type>: data}.
func TranslateCreate(op Operation) (*transport.Request, error) {
	if op.Type == "" {
		return nil, apperrors.MissingField("type")
	}
	if op.Data == nil {
		return nil, apperrors.MissingField("data")
	}
	if err := checkFetch(op.Fetch); err != nil {
		return nil, err
	}
	return &transport.Request{
		URL:     "/" + op.Type + "/create",
		Qs:      buildQs(computed(op.Fetch, op.Scope), op.RequestOptions.Qs),
		JSON:    map[string]any{op.Type: op.Data},
		Options: op.RequestOptions,
	}, nil
}

// TranslateUpdate builds PUT <ref> with body {<type from ref>: data}.
func TranslateUpdate(op Operation) (*transport.Request, error) {
	path, err := ref.Resolve(op.Ref)
	if err != nil {
		return nil, err
	}
	if op.Data == nil {
		return nil, apperrors.MissingField("data")
	}
	if err := checkFetch(op.Fetch); err != nil {
		return nil, err
	}
	typ := ref.Type(path)
	if typ == "" {
		return nil, apperrors.InvalidRef(path).WithDetail("reason", "no type segment")
	}
	return &transport.Request{
		URL:     path,
		Qs:      buildQs(computed(op.Fetch, op.Scope), op.RequestOptions.Qs),
		JSON:    map[string]any{typ: op.Data},
		Options: op.RequestOptions,
	}, nil
}

// TranslateDelete builds DELETE <ref>. Fetch and Query are ignored.
func TranslateDelete(op Operation) (*transport.Request, error) {
	path, err := ref.Resolve(op.Ref)
	if err != nil {
		return nil, err
	}
	return &transport.Request{
		URL:     path,
		Qs:      buildQs(computed(nil, op.Scope), op.RequestOptions.Qs),
		Options: op.RequestOptions,
	}, nil
}

// TranslateGet builds GET <ref>.
func TranslateGet(op Operation) (*transport.Request, error) {
	path, err := ref.Resolve(op.Ref)
	if err != nil {
		return nil, err
	}
	if err := checkFetch(op.Fetch); err != nil {
		return nil, err
	}
	return &transport.Request{
		URL:     path,
		Qs:      buildQs(computed(op.Fetch, op.Scope), op.Query, op.RequestOptions.Qs),
		Options: op.RequestOptions,
	}, nil
}

// TranslateQuery builds GET /<type> with the where clause, order and
// paging parameters.
func TranslateQuery(op QueryOperation) (*transport.Request, error) {
	if op.Type == "" {
		return nil, apperrors.MissingField("type")
	}
	v := validation.New().
		NoneOf("fetch", op.Fetch, ",").
		Custom(op.Start >= 0, "start", "must not be negative").
		Custom(op.PageSize >= 0, "pagesize", "must not be negative")
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	qs := computed(op.Fetch, op.Scope)
	if where := whereString(op.Where); where != "" {
		qs["query"] = where
	}
	if op.Order != "" {
		qs["order"] = op.Order
	}
	if op.Start > 0 {
		qs["start"] = op.Start
	}
	if op.PageSize > 0 {
		qs["pagesize"] = op.PageSize
	}
	return &transport.Request{
		URL:     "/" + strings.Trim(op.Type, "/"),
		Qs:      buildQs(qs, op.Query, op.RequestOptions.Qs),
		Options: op.RequestOptions,
	}, nil
}

// computed returns the query-string keys derived from the descriptor.
func computed(fetch []string, scope Scope) map[string]any {
	qs := make(map[string]any)
	if len(fetch) > 0 {
		qs["fetch"] = strings.Join(fetch, ",")
	}
	if scope.Workspace != "" {
		qs["workspace"] = scope.Workspace
	}
	if scope.Project != "" {
		qs["project"] = scope.Project
	}
	if scope.Up != nil {
		qs["projectScopeUp"] = *scope.Up
	}
	if scope.Down != nil {
		qs["projectScopeDown"] = *scope.Down
	}
	return qs
}

// buildQs overlays the passthrough layers onto the computed keys in order.
// A later layer overrides an earlier one, but never a computed key.
func buildQs(computed map[string]any, layers ...map[string]any) map[string]any {
	qs := make(map[string]any, len(computed))
	for k, v := range computed {
		qs[k] = v
	}
	for _, layer := range layers {
		for k, v := range layer {
			if _, ok := computed[k]; ok {
				continue
			}
			qs[k] = v
		}
	}
	return qs
}

func checkFetch(fetch []string) error {
	if appErr := validation.New().NoneOf("fetch", fetch, ",").Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func whereString(where any) string {
	switch w := where.(type) {
	case nil:
		return ""
	case string:
		return w
	case fmt.Stringer:
		return w.String()
	default:
		return fmt.Sprint(w)
	}
}
