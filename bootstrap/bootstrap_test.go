package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/hubspotkit/component"
	"github.com/kbukum/hubspotkit/config"
	"github.com/kbukum/hubspotkit/logger"
)

type testConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
}

type fakeComponent struct {
	name    string
	status  component.HealthStatus
	started bool
	stopped bool
	events  *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	f.started = true
	*f.events = append(*f.events, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.stopped = true
	*f.events = append(*f.events, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health(context.Context) component.Health {
	return component.Health{Name: f.name, Status: f.status}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "hubspot-debug"}}
	app, err := NewApp(cfg, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewApp_AppliesDefaultsAndValidates(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "hubspot-debug" || app.Cfg.Environment != "development" {
		t.Errorf("unexpected app %+v", app.Cfg.ServiceConfig)
	}

	_, err := NewApp(&testConfig{}, WithLogger(logger.NewNop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	var events []string
	a := &fakeComponent{name: "a", status: component.StatusHealthy, events: &events}
	b := &fakeComponent{name: "b", status: component.StatusHealthy, events: &events}
	for _, c := range []*fakeComponent{a, b} {
		if err := app.RegisterComponent(c); err != nil {
			t.Fatalf("RegisterComponent: %v", err)
		}
	}
	app.OnStart(func(context.Context) error {
		events = append(events, "onStart")
		return nil
	})
	app.OnStop(func(context.Context) error {
		events = append(events, "onStop")
		return nil
	})

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"start:a", "start:b", "onStart", "task", "onStop", "stop:b", "stop:a"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(context.Context) error { return errors.New("stop failed") })

	taskErr := errors.New("task failed")
	if err := app.RunTask(context.Background(), func(context.Context) error { return taskErr }); !errors.Is(err, taskErr) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTask_StopErrorSurfaces(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(context.Context) error { return errors.New("stop failed") })

	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "stop failed") {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestRunTask_OnStartFailureStopsComponents(t *testing.T) {
	app := newTestApp(t)
	var events []string
	c := &fakeComponent{name: "a", status: component.StatusHealthy, events: &events}
	_ = app.RegisterComponent(c)
	app.OnStart(func(context.Context) error { return errors.New("boom") })

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || ran {
		t.Fatalf("expected startup failure, err=%v ran=%v", err, ran)
	}
	if !c.stopped {
		t.Error("component not stopped after failed startup")
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "ok", status: component.StatusHealthy, events: &events})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_ = app.RegisterComponent(&fakeComponent{name: "down", status: component.StatusUnhealthy, events: &events})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "down=unhealthy") {
		t.Errorf("expected unhealthy component in error, got %v", err)
	}
}
