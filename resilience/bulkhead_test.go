package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	bh := NewBulkhead(BulkheadConfig{Name: "rally", MaxConcurrent: 1})
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = bh.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if bh.InUse() != 1 {
		t.Errorf("expected 1 slot in use, got %d", bh.InUse())
	}
	if err := bh.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	close(release)
}

func TestBulkhead_WaitTimeout(t *testing.T) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = bh.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	if err := bh.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestExecuteWithResult(t *testing.T) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	got, err := ExecuteWithResult(context.Background(), bh, func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("expected ok, got %q %v", got, err)
	}
	if bh.InUse() != 0 {
		t.Errorf("expected slot released, got %d", bh.InUse())
	}
}
