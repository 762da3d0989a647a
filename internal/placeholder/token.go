package placeholder

// Token is one element of a parsed template. The set of implementations is
// closed: Literal and VarRef.
type Token interface {
	token()
}

// Literal is a run of template text copied through unchanged.
type Literal struct {
	Text string
}

func (Literal) token() {}

// VarRef is a `${name|filter|...}` reference. Filters apply left to right,
// each receiving the previous stage's output.
type VarRef struct {
	Name    string
	Filters []Filter
}

func (VarRef) token() {}

// Context is the lookup capability a resolver needs: exact-name access to
// the current variable values.
type Context interface {
	Lookup(name string) (value string, ok bool)
}

// MapContext adapts a plain map to the Context interface.
type MapContext map[string]string

// Lookup implements Context.
func (m MapContext) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
