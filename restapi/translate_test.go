package restapi

import (
	"reflect"
	"testing"

	apperrors "github.com/kbukum/rallykit/errors"
	"github.com/kbukum/rallykit/query"
	"github.com/kbukum/rallykit/ref"
	"github.com/kbukum/rallykit/transport"
)

func passthrough() transport.RequestOptions {
	return transport.RequestOptions{Qs: map[string]any{"foo": "bar"}}
}

func TestTranslateCreate(t *testing.T) {
	req, err := TranslateCreate(Operation{
		Type:           "defect",
		Data:           map[string]any{"Name": "A defect"},
		Fetch:          []string{"FormattedID"},
		Scope:          Scope{Workspace: "/workspace/1234"},
		RequestOptions: passthrough(),
	})
	if err != nil {
		t.Fatalf("TranslateCreate: %v", err)
	}
	if req.URL != "/defect/create" {
		t.Errorf("url = %q", req.URL)
	}
	wantBody := map[string]any{"defect": map[string]any{"Name": "A defect"}}
	if !reflect.DeepEqual(req.JSON, wantBody) {
		t.Errorf("json = %v", req.JSON)
	}
	wantQs := map[string]any{"fetch": "FormattedID", "workspace": "/workspace/1234", "foo": "bar"}
	if !reflect.DeepEqual(req.Qs, wantQs) {
		t.Errorf("qs = %v", req.Qs)
	}
}

func TestTranslateUpdateRefForms(t *testing.T) {
	forms := []struct {
		name string
		ref  any
	}{
		{"string", "/defect/1234"},
		{"map", map[string]any{"_ref": "/defect/1234"}},
		{"ref value", ref.Ref{Ref: "/defect/1234"}},
		{"ref pointer", &ref.Ref{Ref: "/defect/1234"}},
	}
	for _, tt := range forms {
		t.Run(tt.name, func(t *testing.T) {
			req, err := TranslateUpdate(Operation{
				Ref:            tt.ref,
				Data:           map[string]any{"Name": "Updated defect"},
				Fetch:          []string{"FormattedID"},
				Scope:          Scope{Workspace: "/workspace/1234"},
				RequestOptions: passthrough(),
			})
			if err != nil {
				t.Fatalf("TranslateUpdate: %v", err)
			}
			if req.URL != "/defect/1234" {
				t.Errorf("url = %q", req.URL)
			}
			wantBody := map[string]any{"defect": map[string]any{"Name": "Updated defect"}}
			if !reflect.DeepEqual(req.JSON, wantBody) {
				t.Errorf("json = %v", req.JSON)
			}
			if req.Qs["fetch"] != "FormattedID" || req.Qs["workspace"] != "/workspace/1234" || req.Qs["foo"] != "bar" {
				t.Errorf("qs = %v", req.Qs)
			}
		})
	}
}

func TestTranslateUpdateNestedType(t *testing.T) {
	req, err := TranslateUpdate(Operation{
		Ref:  "/portfolioitem/feature/5678",
		Data: map[string]any{"Name": "F"},
	})
	if err != nil {
		t.Fatalf("TranslateUpdate: %v", err)
	}
	if _, ok := req.JSON["portfolioitem/feature"]; !ok {
		t.Errorf("json = %v", req.JSON)
	}
}

func TestTranslateDeleteOmitsFetch(t *testing.T) {
	req, err := TranslateDelete(Operation{
		Ref:            map[string]any{"_ref": "/defect/1234"},
		Fetch:          []string{"FormattedID"},
		Scope:          Scope{Workspace: "/workspace/1234"},
		RequestOptions: passthrough(),
	})
	if err != nil {
		t.Fatalf("TranslateDelete: %v", err)
	}
	if req.URL != "/defect/1234" || req.JSON != nil {
		t.Errorf("unexpected request %+v", req)
	}
	want := map[string]any{"workspace": "/workspace/1234", "foo": "bar"}
	if !reflect.DeepEqual(req.Qs, want) {
		t.Errorf("qs = %v", req.Qs)
	}
}

func TestTranslateGet(t *testing.T) {
	up, down := true, false
	req, err := TranslateGet(Operation{
		Ref:            "/defect/1234",
		Fetch:          []string{"FormattedID", "Name"},
		Scope:          Scope{Workspace: "/workspace/1", Project: "/project/2", Up: &up, Down: &down},
		Query:          map[string]any{"compact": true},
		RequestOptions: passthrough(),
	})
	if err != nil {
		t.Fatalf("TranslateGet: %v", err)
	}
	want := map[string]any{
		"fetch":            "FormattedID,Name",
		"workspace":        "/workspace/1",
		"project":          "/project/2",
		"projectScopeUp":   true,
		"projectScopeDown": false,
		"compact":          true,
		"foo":              "bar",
	}
	if !reflect.DeepEqual(req.Qs, want) {
		t.Errorf("qs = %v", req.Qs)
	}
	if req.JSON != nil {
		t.Errorf("get must not carry a body")
	}
}

func TestTranslateQuery(t *testing.T) {
	where := query.Where("Name", "contains", "foo bar").And(query.Where("State", "=", "Open"))
	req, err := TranslateQuery(QueryOperation{
		Type:     "defect",
		Fetch:    []string{"Name"},
		Scope:    Scope{Project: "/project/2"},
		Where:    where,
		Order:    "Rank",
		Start:    21,
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("TranslateQuery: %v", err)
	}
	if req.URL != "/defect" {
		t.Errorf("url = %q", req.URL)
	}
	want := map[string]any{
		"fetch":    "Name",
		"project":  "/project/2",
		"query":    where.String(),
		"order":    "Rank",
		"start":    21,
		"pagesize": 20,
	}
	if !reflect.DeepEqual(req.Qs, want) {
		t.Errorf("qs = %v", req.Qs)
	}
}

func TestQueryStringPrecedence(t *testing.T) {
	req, err := TranslateGet(Operation{
		Ref:   "/defect/1",
		Fetch: []string{"Name"},
		Scope: Scope{Workspace: "/workspace/1"},
		Query: map[string]any{"order": "Rank", "shared": "query"},
		RequestOptions: transport.RequestOptions{Qs: map[string]any{
			"fetch":     "Owner",
			"workspace": "/workspace/999",
			"project":   "/project/5",
			"shared":    "options",
		}},
	})
	if err != nil {
		t.Fatalf("TranslateGet: %v", err)
	}
	want := map[string]any{
		"fetch":     "Name",
		"workspace": "/workspace/1",
		"project":   "/project/5",
		"order":     "Rank",
		"shared":    "options",
	}
	if !reflect.DeepEqual(req.Qs, want) {
		t.Errorf("qs = %v", req.Qs)
	}
}

func TestWritesIgnoreQuery(t *testing.T) {
	extra := map[string]any{"compact": true}
	tests := []struct {
		name string
		fn   func(Operation) (*transport.Request, error)
		op   Operation
	}{
		{"create", TranslateCreate, Operation{Type: "defect", Data: map[string]any{"Name": "x"}, Query: extra}},
		{"update", TranslateUpdate, Operation{Ref: "/defect/1", Data: map[string]any{"Name": "x"}, Query: extra}},
		{"delete", TranslateDelete, Operation{Ref: "/defect/1", Query: extra}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.fn(tt.op)
			if err != nil {
				t.Fatalf("translate: %v", err)
			}
			if _, ok := req.Qs["compact"]; ok {
				t.Errorf("qs = %v", req.Qs)
			}
		})
	}
}

func TestTranslateLeavesPassthroughUntouched(t *testing.T) {
	opts := passthrough()
	req, err := TranslateGet(Operation{Ref: "/defect/1", Fetch: []string{"Name"}, RequestOptions: opts})
	if err != nil {
		t.Fatalf("TranslateGet: %v", err)
	}
	if len(opts.Qs) != 1 || opts.Qs["foo"] != "bar" {
		t.Errorf("passthrough qs modified: %v", opts.Qs)
	}
	if req.Qs["foo"] != "bar" {
		t.Errorf("qs = %v", req.Qs)
	}
}

func TestTranslateMalformed(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*transport.Request, error)
		code apperrors.ErrorCode
	}{
		{"create without type", func() (*transport.Request, error) {
			return TranslateCreate(Operation{Data: map[string]any{}})
		}, apperrors.ErrCodeMissingField},
		{"create without data", func() (*transport.Request, error) {
			return TranslateCreate(Operation{Type: "defect"})
		}, apperrors.ErrCodeMissingField},
		{"update without ref", func() (*transport.Request, error) {
			return TranslateUpdate(Operation{Data: map[string]any{}})
		}, apperrors.ErrCodeMissingField},
		{"update without data", func() (*transport.Request, error) {
			return TranslateUpdate(Operation{Ref: "/defect/1"})
		}, apperrors.ErrCodeMissingField},
		{"update without type segment", func() (*transport.Request, error) {
			return TranslateUpdate(Operation{Ref: "/1234", Data: map[string]any{}})
		}, apperrors.ErrCodeInvalidRef},
		{"delete with bad ref", func() (*transport.Request, error) {
			return TranslateDelete(Operation{Ref: 1234})
		}, apperrors.ErrCodeInvalidRef},
		{"get with empty ref", func() (*transport.Request, error) {
			return TranslateGet(Operation{Ref: ""})
		}, apperrors.ErrCodeMissingField},
		{"get with comma in fetch", func() (*transport.Request, error) {
			return TranslateGet(Operation{Ref: "/defect/1", Fetch: []string{"Name,Owner"}})
		}, apperrors.ErrCodeInvalidInput},
		{"query without type", func() (*transport.Request, error) {
			return TranslateQuery(QueryOperation{})
		}, apperrors.ErrCodeMissingField},
		{"query with negative page size", func() (*transport.Request, error) {
			return TranslateQuery(QueryOperation{Type: "defect", PageSize: -1})
		}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.fn()
			if req != nil {
				t.Errorf("expected no request, got %+v", req)
			}
			if !apperrors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}
