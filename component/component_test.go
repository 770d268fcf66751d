package component

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/hubspotkit/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
	desc Description
}

func (d *describedComponent) Describe() Description { return d.desc }

func newRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestNewRegistry_DefaultLogger(t *testing.T) {
	r := NewRegistry(nil)
	if r == nil || r.log == nil {
		t.Fatal("expected registry with a logger")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newRegistry()
	if err := r.Register(&mockComponent{name: "http"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "http"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "hubspot"})

	got := r.Get("hubspot")
	if got == nil || got.Name() != "hubspot" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := newRegistry()
	order := []string{}

	_ = r.Register(&mockComponent{name: "http", startOrder: &order})
	_ = r.Register(&mockComponent{name: "hubspot", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "http" || order[1] != "hubspot" {
		t.Errorf("expected start order [http, hubspot], got %v", order)
	}
}

func TestStartAllErrorStopsStarted(t *testing.T) {
	r := newRegistry()
	stops := []string{}
	_ = r.Register(&mockComponent{name: "http", stopOrder: &stops})
	_ = r.Register(&mockComponent{name: "hubspot", startErr: fmt.Errorf("bad config"), stopOrder: &stops})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected error from StartAll")
	}
	if len(stops) != 1 || stops[0] != "http" {
		t.Errorf("expected only the started component to be stopped, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := newRegistry()
	order := []string{}

	_ = r.Register(&mockComponent{name: "http", stopOrder: &order})
	_ = r.Register(&mockComponent{name: "hubspot", stopOrder: &order})
	_ = r.Register(&mockComponent{name: "sandbox", stopOrder: &order})

	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "sandbox" || order[1] != "hubspot" || order[2] != "http" {
		t.Errorf("expected reverse stop order, got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := newRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "http", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "http", stopErr: fmt.Errorf("stop failed")})
	_ = r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "http", health: Health{Name: "http", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "hubspot", health: Health{Name: "hubspot", Status: StatusUnhealthy, Message: "probe failed"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusUnhealthy {
		t.Errorf("unexpected health %v", results)
	}
}

func TestDescribe(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "plain"})
	_ = r.Register(&describedComponent{mockComponent: mockComponent{name: "hubspot"}, desc: Description{Type: "hubspot", Details: "x"}})

	descs := r.Describe()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "hubspot" || descs[0].Type != "hubspot" {
		t.Errorf("unexpected description %+v", descs[0])
	}
}

func TestAll(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "a"})
	_ = r.Register(&mockComponent{name: "b"})
	all := r.All()
	if len(all) != 2 || all[0].Name() != "a" || all[1].Name() != "b" {
		t.Errorf("unexpected components %v", all)
	}
}
