package params

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestCurrent_Empty(t *testing.T) {
	s := NewStore("test")
	if got := s.Current(context.Background()); len(got) != 0 || got == nil {
		t.Errorf("expected empty non-nil params, got %v", got)
	}
	if d := s.Depth(context.Background()); d != 0 {
		t.Errorf("expected depth 0, got %d", d)
	}
}

func TestEnter_NestedFramesFlatten(t *testing.T) {
	s := NewStore("test")
	ctx := context.Background()

	ctx1, g1 := s.Enter(ctx, Params{"timeout": time.Second, "retry": true})
	ctx2, g2 := s.Enter(ctx1, Params{"retry": false, "headers": map[string]string{"a": "b"}})

	got := s.Current(ctx2)
	if got["timeout"] != time.Second || got["retry"] != false || got["headers"] == nil {
		t.Errorf("unexpected merged frame %v", got)
	}
	if s.Depth(ctx2) != 2 {
		t.Errorf("expected depth 2, got %d", s.Depth(ctx2))
	}

	g2.Release()
	got = s.Current(ctx1)
	if got["retry"] != true {
		t.Errorf("inner override leaked after release: %v", got)
	}
	if _, ok := got["headers"]; ok {
		t.Errorf("inner key leaked after release: %v", got)
	}

	g1.Release()
	if s.Depth(ctx1) != 0 || len(s.Current(ctx1)) != 0 {
		t.Errorf("expected empty stack, got %v", s.Current(ctx1))
	}
}

func TestEnter_LeavesParentContextUnchanged(t *testing.T) {
	s := NewStore("test")
	ctx, g1 := s.Enter(context.Background(), Params{"a": 1})
	defer g1.Release()
	ctx2, g2 := s.Enter(ctx, Params{"a": 2})
	defer g2.Release()

	if s.Current(ctx)["a"] != 1 || s.Current(ctx2)["a"] != 2 {
		t.Errorf("parent=%v child=%v", s.Current(ctx), s.Current(ctx2))
	}
	if s.Depth(ctx) != 1 || s.Depth(ctx2) != 2 {
		t.Errorf("depths parent=%d child=%d", s.Depth(ctx), s.Depth(ctx2))
	}
}

func TestRelease_ContextFallsBackToEnclosingFrame(t *testing.T) {
	s := NewStore("test")
	ctx, outer := s.Enter(context.Background(), Params{"a": 1})
	defer outer.Release()
	inner, g := s.Enter(ctx, Params{"a": 2})
	g.Release()

	if got := s.Current(inner)["a"]; got != 1 {
		t.Errorf("released frame still visible: a=%v", got)
	}
	if s.Depth(inner) != 1 {
		t.Errorf("expected depth 1, got %d", s.Depth(inner))
	}
}

func TestEnterRelease_IdenticalOverridesLeaveViewUnchanged(t *testing.T) {
	s := NewStore("test")
	ctx, g := s.Enter(context.Background(), Params{"timeout": 2 * time.Second})
	defer g.Release()

	before := s.Current(ctx)
	_, inner := s.Enter(ctx, Params{"timeout": 2 * time.Second})
	if got := s.Current(ctx); got["timeout"] != before["timeout"] || len(got) != len(before) {
		t.Errorf("view changed: before %v, during %v", before, got)
	}
	inner.Release()
	if got := s.Current(ctx); got["timeout"] != before["timeout"] || len(got) != len(before) {
		t.Errorf("view changed: before %v, after %v", before, got)
	}
}

func TestCurrentWith_ExplicitWins(t *testing.T) {
	s := NewStore("test")
	ctx, g := s.Enter(context.Background(), Params{"timeout": time.Second, "retry": false})
	defer g.Release()

	got := s.CurrentWith(ctx, Params{"timeout": 5 * time.Second})
	if got["timeout"] != 5*time.Second || got["retry"] != false {
		t.Errorf("unexpected merge %v", got)
	}
	if s.Current(ctx)["timeout"] != time.Second {
		t.Error("CurrentWith must not modify the frame")
	}

	if got := s.CurrentWith(context.Background(), Params{"x": 1}); got["x"] != 1 || len(got) != 1 {
		t.Errorf("unexpected result without a stack: %v", got)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := NewStore("test")
	ctx, g := s.Enter(context.Background(), Params{"a": 1})
	defer g.Release()

	c := s.Current(ctx)
	c["a"] = 2
	if s.Current(ctx)["a"] != 1 {
		t.Error("mutating the result changed the frame")
	}
}

func TestGuard_DoubleReleasePanics(t *testing.T) {
	s := NewStore("test")
	_, g := s.Enter(context.Background(), Params{"a": 1})
	g.Release()
	mustPanic(t, "double release", g.Release)
}

func TestGuard_OutOfOrderReleasePanics(t *testing.T) {
	s := NewStore("test")
	ctx, outer := s.Enter(context.Background(), Params{"a": 1})
	_, inner := s.Enter(ctx, Params{"b": 2})

	mustPanic(t, "out of order", outer.Release)

	inner.Release()
	outer.Release()
	if s.Depth(ctx) != 0 {
		t.Errorf("expected empty stack, got depth %d", s.Depth(ctx))
	}
}

func TestGuard_Values(t *testing.T) {
	s := NewStore("test")
	_, g := s.Enter(context.Background(), Params{"a": 1})
	defer g.Release()
	if g.Values()["a"] != 1 {
		t.Errorf("unexpected guard values %v", g.Values())
	}
}

func TestStores_AreIsolated(t *testing.T) {
	a := NewStore("a")
	b := NewStore("b")

	ctx, g := a.Enter(context.Background(), Params{"k": "a"})
	defer g.Release()

	if got := b.Current(ctx); len(got) != 0 {
		t.Errorf("store b saw store a's frame: %v", got)
	}
	if b.Depth(ctx) != 0 {
		t.Error("store b should have no frames")
	}
}

func TestEnter_SiblingGoroutinesAreIsolated(t *testing.T) {
	s := NewStore("test")
	parent, g := s.Enter(context.Background(), Params{"base": 1})
	defer g.Release()

	aEntered := make(chan struct{})
	bEntered := make(chan struct{})
	results := make(chan string, 4)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ctx, guard := s.Enter(parent, Params{"who": "A"})
		close(aEntered)
		<-bEntered
		if got := s.CurrentWith(ctx, nil)["who"]; got != "A" {
			results <- fmt.Sprintf("A saw who=%v", got)
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					results <- "A.Release panicked"
				}
			}()
			guard.Release()
		}()
	}()
	go func() {
		defer wg.Done()
		<-aEntered
		ctx, guard := s.Enter(parent, Params{"who": "B"})
		close(bEntered)
		if got := s.Current(ctx)["who"]; got != "B" {
			results <- "B saw a foreign frame"
		}
		guard.Release()
	}()
	wg.Wait()
	close(results)
	for r := range results {
		t.Error(r)
	}

	if got := s.Current(parent); len(got) != 1 || got["base"] != 1 {
		t.Errorf("parent view changed: %v", got)
	}
	if s.Depth(parent) != 1 {
		t.Errorf("parent depth changed to %d", s.Depth(parent))
	}
}

func TestEnter_ConcurrentGoroutines(t *testing.T) {
	s := NewStore("test")
	ctx, g := s.Enter(context.Background(), Params{"base": true})
	defer g.Release()

	var wg sync.WaitGroup
	errs := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				inner, guard := s.Enter(ctx, Params{"worker": i, "step": j})
				cur := s.Current(inner)
				if cur["worker"] != i || cur["step"] != j || cur["base"] != true {
					errs <- "unexpected frame"
				}
				guard.Release()
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
	if s.Depth(ctx) != 1 || len(s.Current(ctx)) != 1 {
		t.Errorf("parent changed: depth=%d params=%v", s.Depth(ctx), s.Current(ctx))
	}
}

func TestScope(t *testing.T) {
	s := NewStore("test")
	ctx := context.Background()

	err := s.Scope(ctx, Params{"a": 1}, func(inner context.Context) error {
		if s.Current(inner)["a"] != 1 {
			t.Error("scope frame not visible")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope() error = %v", err)
	}
}

func TestMergeAndPop(t *testing.T) {
	base := Params{"a": 1, "b": 2}
	merged := Merge(base, Params{"b": 3, "c": 4})
	if merged["a"] != 1 || merged["b"] != 3 || merged["c"] != 4 {
		t.Errorf("unexpected merge %v", merged)
	}
	if base["b"] != 2 {
		t.Error("Merge modified base")
	}

	v, ok := merged.Pop("b")
	if !ok || v != 3 {
		t.Errorf("Pop() = %v, %v", v, ok)
	}
	if _, ok := merged["b"]; ok {
		t.Error("Pop did not remove the key")
	}
	if _, ok := merged.Pop("missing"); ok {
		t.Error("Pop reported a missing key")
	}

	var nilParams Params
	if c := nilParams.Clone(); c == nil {
		t.Error("Clone of nil should be non-nil")
	}
}
