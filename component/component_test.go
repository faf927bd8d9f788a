package component

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/rallykit/logger"
)

type fake struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (f *fake) Name() string { return f.name }
func (f *fake) Start(context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}
func (f *fake) Stop(context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return f.stopErr
}
func (f *fake) Health(context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}
func (f *fake) Describe() Description {
	return Description{Type: "fake", Details: f.name}
}

func TestRegistryOrder(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	for _, n := range []string{"transport", "client"} {
		if err := r.Register(&fake{name: n, events: &events}); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "start:transport,start:client,stop:client,stop:transport"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&fake{name: "transport", events: &events})
	if err := r.Register(&fake{name: "transport", events: &events}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryStartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&fake{name: "a", events: &events})
	_ = r.Register(&fake{name: "b", events: &events, startErr: errors.New("boom")})
	_ = r.Register(&fake{name: "c", events: &events})

	if err := r.StartAll(context.Background()); err == nil || !strings.Contains(err.Error(), "failed to start b") {
		t.Fatalf("expected start failure for b, got %v", err)
	}
	_ = r.StopAll(context.Background())
	want := "start:a,start:b,stop:a"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRegistryStopErrorsJoined(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&fake{name: "a", events: &events, stopErr: errors.New("x")})
	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err == nil || !strings.Contains(err.Error(), "failed to stop a") {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestRegistryHealthAndGet(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&fake{name: "transport", events: &events})
	health := r.HealthAll(context.Background())
	if len(health) != 1 || health[0].Status != StatusHealthy {
		t.Errorf("unexpected health: %v", health)
	}
	if r.Get("transport") == nil || r.Get("missing") != nil {
		t.Error("unexpected Get result")
	}
}
