package params

import "fmt"

// Guard pops the frame pushed by Store.Enter. Frames must be released in
// reverse order of entry, exactly once.
type Guard struct {
	store *Store
	frame *frame
}

// Release pops the guarded frame. It panics when the frame was already
// released or a frame entered on top of it is still active.
func (g *Guard) Release() {
	f := g.frame
	if f.released.Load() {
		panic(fmt.Sprintf("params: %s: frame released twice", g.store.name))
	}
	if f.children.Load() > 0 {
		panic(fmt.Sprintf("params: %s: frame released out of order", g.store.name))
	}
	if !f.released.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("params: %s: frame released twice", g.store.name))
	}
	if f.parent != nil {
		f.parent.children.Add(-1)
	}
}

// Values returns a copy of the frame this guard holds.
func (g *Guard) Values() Params {
	return g.frame.values.Clone()
}
