package params

import (
	"context"
	"sync/atomic"
)

// Store hands out parameter frames bound to contexts. Stores are compared by
// pointer; always use the one returned by NewStore.
type Store struct {
	name string
}

type ctxKey struct{ store *Store }

// frame is immutable apart from its release bookkeeping.
type frame struct {
	parent *frame
	values Params

	released atomic.Bool
	// children counts active frames entered directly on this one.
	children atomic.Int32
}

// NewStore creates a store. name is only used in diagnostics.
func NewStore(name string) *Store {
	return &Store{name: name}
}

// top returns the innermost active frame visible from ctx. Released frames
// are skipped, so a context that outlives its guard sees the enclosing frame.
func (s *Store) top(ctx context.Context) *frame {
	f, _ := ctx.Value(ctxKey{s}).(*frame)
	for f != nil && f.released.Load() {
		f = f.parent
	}
	return f
}

func (f *frame) params() Params {
	if f == nil {
		return nil
	}
	return f.values
}

// Enter returns a context carrying a new frame holding the current frame
// merged with overrides, plus a guard that pops it. ctx itself is unchanged,
// so goroutines sharing ctx never see each other's frames.
func (s *Store) Enter(ctx context.Context, overrides Params) (context.Context, *Guard) {
	parent := s.top(ctx)
	f := &frame{parent: parent, values: Merge(parent.params(), overrides)}
	if parent != nil {
		parent.children.Add(1)
	}
	return context.WithValue(ctx, ctxKey{s}, f), &Guard{store: s, frame: f}
}

// Scope runs fn inside a frame holding overrides and releases the frame when
// fn returns.
func (s *Store) Scope(ctx context.Context, overrides Params, fn func(ctx context.Context) error) error {
	ctx, guard := s.Enter(ctx, overrides)
	defer guard.Release()
	return fn(ctx)
}

// Current returns a copy of the innermost frame, empty when none is active.
func (s *Store) Current(ctx context.Context) Params {
	return s.top(ctx).params().Clone()
}

// CurrentWith returns the innermost frame overlaid with explicit. Keys in
// explicit win.
func (s *Store) CurrentWith(ctx context.Context, explicit Params) Params {
	return Merge(s.top(ctx).params(), explicit)
}

// Depth returns the number of active frames visible from ctx.
func (s *Store) Depth(ctx context.Context) int {
	n := 0
	for f := s.top(ctx); f != nil; f = f.parent {
		if !f.released.Load() {
			n++
		}
	}
	return n
}
