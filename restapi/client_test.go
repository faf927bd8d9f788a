package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/rallykit/errors"
	"github.com/kbukum/rallykit/logger"
	"github.com/kbukum/rallykit/transport"
	"github.com/kbukum/rallykit/transport/transporttest"
)

func newRecordedClient(t *testing.T) (*Client, *transporttest.Recorder) {
	t.Helper()
	rec := transporttest.New()
	c, err := New(Config{}, WithTransport(rec), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, rec
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCreateHandsCallbackToTransport(t *testing.T) {
	c, rec := newRecordedClient(t)
	done := make(chan struct{})
	cb := func(transport.Payload, error) { close(done) }

	f, err := c.Create(testContext(t), Operation{
		Type: "defect",
		Data: map[string]any{"Name": "A defect"},
	}, cb)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	calls := rec.CallsFor(http.MethodPost)
	if len(calls) != 1 {
		t.Fatalf("expected 1 post, got %d", len(calls))
	}
	call := calls[0]
	if call.Request.URL != "/defect/create" {
		t.Errorf("url = %q", call.Request.URL)
	}
	if !reflect.DeepEqual(call.Request.JSON, map[string]any{"defect": map[string]any{"Name": "A defect"}}) {
		t.Errorf("json = %v", call.Request.JSON)
	}
	if !call.HasCallback {
		t.Error("expected the callback to reach the transport")
	}
	if call.Future != f {
		t.Error("expected the transport future to be returned as-is")
	}
	<-done
}

func TestUpdateAndDeleteReturnTransportFuture(t *testing.T) {
	c, rec := newRecordedClient(t)
	ctx := testContext(t)

	uf, err := c.Update(ctx, Operation{
		Ref:  map[string]any{"_ref": "/defect/1234"},
		Data: map[string]any{"Name": "Updated defect"},
	}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	df, err := c.Delete(ctx, Operation{Ref: map[string]any{"_ref": "/defect/1234"}}, nil)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	put := rec.CallsFor(http.MethodPut)
	del := rec.CallsFor(http.MethodDelete)
	if len(put) != 1 || len(del) != 1 {
		t.Fatalf("expected one put and one delete, got %d and %d", len(put), len(del))
	}
	if put[0].Request.URL != "/defect/1234" || del[0].Request.URL != "/defect/1234" {
		t.Errorf("urls = %q, %q", put[0].Request.URL, del[0].Request.URL)
	}
	if !reflect.DeepEqual(put[0].Request.JSON, map[string]any{"defect": map[string]any{"Name": "Updated defect"}}) {
		t.Errorf("json = %v", put[0].Request.JSON)
	}
	if put[0].Future != uf || del[0].Future != df {
		t.Error("expected the transport futures to be returned as-is")
	}
}

func TestGetNormalizesForCallbackAndFuture(t *testing.T) {
	c, rec := newRecordedClient(t)
	rec.Yield(http.MethodGet, transport.Payload{"Errors": []any{}, "Warnings": []any{}, "Name": "Foo"}, nil)

	want := Result{Errors: []string{}, Warnings: []string{}, Object: map[string]any{"Name": "Foo"}}
	var (
		wg    sync.WaitGroup
		calls int32
		cbRes Result
		cbErr error
	)
	wg.Add(1)
	f, err := c.Get(testContext(t), Operation{Ref: map[string]any{"_ref": "/defect/1234"}}, func(r Result, err error) {
		atomic.AddInt32(&calls, 1)
		cbRes, cbErr = r, err
		wg.Done()
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	res, err := f.Await(testContext(t))
	wg.Wait()
	if err != nil || cbErr != nil {
		t.Fatalf("unexpected errors: %v, %v", err, cbErr)
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("future = %#v", res)
	}
	if !reflect.DeepEqual(cbRes, want) {
		t.Errorf("callback = %#v", cbRes)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times", calls)
	}

	gets := rec.CallsFor(http.MethodGet)
	if len(gets) != 1 || gets[0].Request.URL != "/defect/1234" {
		t.Fatalf("expected a single get of /defect/1234, got %+v", gets)
	}
	if gets[0].HasCallback {
		t.Error("get must not hand the callback to the transport")
	}
}

func TestGetErrorReachesCallbackAndFuture(t *testing.T) {
	c, rec := newRecordedClient(t)
	want := transport.ResultErrors{"Error!"}
	rec.Yield(http.MethodGet, nil, want)

	done := make(chan struct{})
	var cbRes Result
	var cbErr error
	f, err := c.Get(testContext(t), Operation{Ref: map[string]any{"_ref": "/defect/1234"}}, func(r Result, err error) {
		cbRes, cbErr = r, err
		close(done)
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	res, err := f.Await(testContext(t))
	<-done
	if !reflect.DeepEqual(err, want) {
		t.Errorf("future error = %#v", err)
	}
	if !reflect.DeepEqual(cbErr, want) {
		t.Errorf("callback error = %#v", cbErr)
	}
	if res.Object != nil || cbRes.Object != nil {
		t.Error("expected no result on failure")
	}
}

func TestQueryNormalizesPage(t *testing.T) {
	c, rec := newRecordedClient(t)
	rec.Yield(http.MethodGet, transport.Payload{
		"Errors": []any{}, "Warnings": []any{},
		"TotalResultCount": 1.0, "StartIndex": 1.0, "PageSize": 20.0,
		"Results": []any{map[string]any{"_ref": "/defect/1"}},
	}, nil)

	f, err := c.Query(testContext(t), QueryOperation{Type: "defect", PageSize: 20}, nil)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	res, err := f.Await(testContext(t))
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if res.Object["TotalResultCount"] != 1.0 || len(res.Object["Results"].([]any)) != 1 {
		t.Errorf("unexpected page %v", res.Object)
	}
	last, _ := rec.Last()
	if last.Request.URL != "/defect" || last.Request.Qs["pagesize"] != 20 {
		t.Errorf("unexpected request %+v", last.Request)
	}
}

func TestMalformedOperationsFailBeforeTransport(t *testing.T) {
	c, rec := newRecordedClient(t)
	ctx := testContext(t)

	if f, err := c.Create(ctx, Operation{Type: "defect"}, nil); f != nil || !apperrors.IsCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("create: %v %v", f, err)
	}
	if f, err := c.Update(ctx, Operation{Data: map[string]any{}}, nil); f != nil || err == nil {
		t.Errorf("update: %v %v", f, err)
	}
	if f, err := c.Delete(ctx, Operation{}, nil); f != nil || err == nil {
		t.Errorf("delete: %v %v", f, err)
	}
	if f, err := c.Get(ctx, Operation{Ref: 42}, nil); f != nil || !apperrors.IsCode(err, apperrors.ErrCodeInvalidRef) {
		t.Errorf("get: %v %v", f, err)
	}
	if f, err := c.Query(ctx, QueryOperation{}, nil); f != nil || err == nil {
		t.Errorf("query: %v %v", f, err)
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("expected no transport calls, got %d", n)
	}
}

func TestCallsSettleIndependently(t *testing.T) {
	c, rec := newRecordedClient(t)
	rec.Delay = 10 * time.Millisecond
	ctx := testContext(t)

	futures := make([]interface {
		Done() <-chan struct{}
	}, 0, 10)
	for i := 0; i < 5; i++ {
		f, err := c.Get(ctx, Operation{Ref: "/defect/1"}, nil)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		futures = append(futures, f)
		w, err := c.Delete(ctx, Operation{Ref: "/defect/2"}, nil)
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		futures = append(futures, w)
	}
	for _, f := range futures {
		select {
		case <-f.Done():
		case <-ctx.Done():
			t.Fatal("future never settled")
		}
	}
	if n := len(rec.Calls()); n != 10 {
		t.Errorf("expected 10 transport calls, got %d", n)
	}
}

func TestClientsDoNotShareState(t *testing.T) {
	type seen struct {
		key, path string
	}
	newServer := func(out chan<- seen) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out <- seen{key: r.Header.Get("ZSESSIONID"), path: r.URL.Path}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"Defect": map[string]any{"Name": "x"}})
		}))
	}
	seenA, seenB := make(chan seen, 1), make(chan seen, 1)
	srvA, srvB := newServer(seenA), newServer(seenB)
	defer srvA.Close()
	defer srvB.Close()

	a, err := New(Config{Server: srvA.URL, APIVersion: "v2.0", APIKey: "key-a"}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New a: %v", err)
	}
	defer a.Close()
	b, err := New(Config{Server: srvB.URL, APIVersion: "1.43", APIKey: "key-b"}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New b: %v", err)
	}
	defer b.Close()

	ctx := testContext(t)
	fa, _ := a.Get(ctx, Operation{Ref: "/defect/1"}, nil)
	fb, _ := b.Get(ctx, Operation{Ref: "/defect/1"}, nil)
	if _, err := fa.Await(ctx); err != nil {
		t.Fatalf("a: %v", err)
	}
	if _, err := fb.Await(ctx); err != nil {
		t.Fatalf("b: %v", err)
	}

	if got := <-seenA; got.key != "key-a" || got.path != "/slm/webservice/v2.0/defect/1" {
		t.Errorf("server a saw %+v", got)
	}
	if got := <-seenB; got.key != "key-b" || got.path != "/slm/webservice/1.43/defect/1" {
		t.Errorf("server b saw %+v", got)
	}
}
