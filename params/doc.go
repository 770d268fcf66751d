// Package params keeps request-parameter frames per logical execution
// context.
//
// Each frame is already flattened: entering a scope merges its overrides over
// the frame below, so lookups only ever read the innermost frame. Frames are
// immutable and travel in a context.Context keyed by the owning Store, which
// means two stores never observe each other's frames and a frame entered on
// one goroutine's context is invisible to its siblings.
//
//	ctx, guard := store.Enter(ctx, params.Params{"timeout": 2 * time.Second})
//	defer guard.Release()
//	merged := store.CurrentWith(ctx, explicit) // explicit wins
package params
