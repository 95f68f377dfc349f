package logseq

// Result is a tagged view over the decoded JSON body of a successful API
// response. The remote service gives no compile-time guarantee about the
// shape of any method's result, so every consumer declares which variant
// it accepts (mapping, sequence, or scalar) and treats a mismatch as a
// malformed response rather than coercing.
type Result struct {
	value any
}

func newResult(v any) Result {
	return Result{value: v}
}

// Value returns the raw decoded value. Prefer the typed accessors.
func (r Result) Value() any {
	return r.value
}

// IsNull reports whether the body was JSON null (or empty).
func (r Result) IsNull() bool {
	return r.value == nil
}

// Map returns the mapping variant.
func (r Result) Map() (map[string]any, bool) {
	m, ok := r.value.(map[string]any)
	return m, ok
}

// List returns the sequence variant.
func (r Result) List() ([]any, bool) {
	l, ok := r.value.([]any)
	return l, ok
}

// Scalar returns the value when it is neither a mapping nor a sequence
// nor null.
func (r Result) Scalar() (any, bool) {
	switch r.value.(type) {
	case nil, map[string]any, []any:
		return nil, false
	default:
		return r.value, true
	}
}
