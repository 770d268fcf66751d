package params

// Params is a set of request parameters keyed by option name.
type Params map[string]any

// Clone returns a shallow copy of p. A nil p yields an empty, non-nil map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a new map holding base overlaid with overrides. Values are
// replaced, never merged recursively.
func Merge(base, overrides Params) Params {
	out := make(Params, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Pop removes key from p and returns its value.
func (p Params) Pop(key string) (any, bool) {
	v, ok := p[key]
	if ok {
		delete(p, key)
	}
	return v, ok
}
