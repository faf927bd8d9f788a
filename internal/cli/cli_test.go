package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newServer(t *testing.T, seen *[]recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		*seen = append(*seen, rec)

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Defect": map[string]any{"Errors": []any{}, "Warnings": []any{}, "Name": "Foo"},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"OperationResult": map[string]any{"Errors": []any{}, "Warnings": []any{}},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, server string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rallyctl.yml")
	content := "logging:\n  level: error\nrally:\n  server: " + server + "\n  apikey: _key\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	root, stop := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if stopErr := stop(ctx); stopErr != nil {
		t.Errorf("stop: %v", stopErr)
	}
	return out.String(), err
}

func TestGetPrintsNormalizedResult(t *testing.T) {
	var seen []recorded
	srv := newServer(t, &seen)

	out, err := run(t, "--config", writeConfig(t, srv.URL),
		"get", "/defect/1234", "--fetch", "Name,FormattedID", "--workspace", "/workspace/1", "--scope-up")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var res struct {
		Errors   []string
		Warnings []string
		Object   map[string]any
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Object["Name"] != "Foo" || res.Errors == nil {
		t.Errorf("unexpected result %+v", res)
	}

	if len(seen) != 1 {
		t.Fatalf("expected 1 request, got %d", len(seen))
	}
	got := seen[0]
	if got.path != "/slm/webservice/v2.0/defect/1234" {
		t.Errorf("path = %q", got.path)
	}
	for _, want := range []string{"fetch=Name%2CFormattedID", "workspace=%2Fworkspace%2F1", "projectScopeUp=true"} {
		if !strings.Contains(got.query, want) {
			t.Errorf("query %q missing %q", got.query, want)
		}
	}
	if strings.Contains(got.query, "projectScopeDown") {
		t.Errorf("unset scope-down sent: %q", got.query)
	}
}

func TestCreateSendsData(t *testing.T) {
	var seen []recorded
	srv := newServer(t, &seen)

	_, err := run(t, "--config", writeConfig(t, srv.URL),
		"create", "defect", "--data", `{"Name":"A defect"}`)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(seen) != 1 || seen[0].method != http.MethodPost || seen[0].path != "/slm/webservice/v2.0/defect/create" {
		t.Fatalf("unexpected requests %+v", seen)
	}
	defect, _ := seen[0].body["defect"].(map[string]any)
	if defect["Name"] != "A defect" {
		t.Errorf("body = %v", seen[0].body)
	}
}

func TestQueryBuildsParameters(t *testing.T) {
	var seen []recorded
	srv := newServer(t, &seen)

	_, err := run(t, "--config", writeConfig(t, srv.URL),
		"query", "defect", "--where", "(State = Open)", "--order", "Rank", "--pagesize", "5")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(seen) != 1 || seen[0].path != "/slm/webservice/v2.0/defect" {
		t.Fatalf("unexpected requests %+v", seen)
	}
	for _, want := range []string{"query=%28State+%3D+Open%29", "order=Rank", "pagesize=5"} {
		if !strings.Contains(seen[0].query, want) {
			t.Errorf("query %q missing %q", seen[0].query, want)
		}
	}
}

func TestUpdateRequiresData(t *testing.T) {
	var seen []recorded
	srv := newServer(t, &seen)

	_, err := run(t, "--config", writeConfig(t, srv.URL), "update", "/defect/1")
	if err == nil || !strings.Contains(err.Error(), "--data") {
		t.Fatalf("expected missing data error, got %v", err)
	}
	if len(seen) != 0 {
		t.Errorf("expected no requests, got %d", len(seen))
	}
}

func TestDeleteAndInvalidConfig(t *testing.T) {
	var seen []recorded
	srv := newServer(t, &seen)

	if _, err := run(t, "--config", writeConfig(t, srv.URL), "delete", "/defect/9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(seen) != 1 || seen[0].method != http.MethodDelete {
		t.Fatalf("unexpected requests %+v", seen)
	}

	if _, err := run(t, "--config", writeConfig(t, srv.URL), "--log-level", "loud", "delete", "/defect/9"); err == nil {
		t.Error("expected invalid log level to fail")
	}
}

func TestPrintErrorWritesResponseObject(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := run(t, "--config", writeConfig(t, srv.URL), "get", "/defect/404")
	if err == nil {
		t.Fatal("expected get to fail")
	}

	var out bytes.Buffer
	PrintError(&out, err)
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected a message")
	}
}

func TestParseData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"Name":"from file"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"inline", `{"Name":"x"}`, "x", false},
		{"file", "@" + path, "from file", false},
		{"empty", "", "", true},
		{"not an object", `[1,2]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseData(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !tt.wantErr && got["Name"] != tt.want {
				t.Errorf("got %v", got)
			}
		})
	}
}
