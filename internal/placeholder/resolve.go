package placeholder

import (
	"fmt"
	"strings"
)

// Resolve substitutes every token against the given context and concatenates
// the results. Missing variables degrade to the empty string before the
// filter chain runs. The first filter error aborts resolution, wrapped with
// the offending variable's name.
//
// Resolve never mutates the tokens or the context, so it is safe for any
// number of concurrent readers over an immutable snapshot.
func Resolve(tokens []Token, ctx Context) (string, error) {
	var out strings.Builder
	for _, t := range tokens {
		switch tok := t.(type) {
		case Literal:
			out.WriteString(tok.Text)
		case VarRef:
			value, _ := ctx.Lookup(tok.Name)
			for _, f := range tok.Filters {
				var err error
				value, err = f.Apply(value)
				if err != nil {
					return "", fmt.Errorf("variable %q: %w", tok.Name, err)
				}
			}
			out.WriteString(value)
		}
	}
	return out.String(), nil
}

// MustParse parses a template known to be valid at compile time. It is a
// convenience for fixed internal templates and panics on error.
func MustParse(expression string) []Token {
	tokens, err := Parse(expression)
	if err != nil {
		panic(fmt.Sprintf("placeholder: %q: %v", expression, err))
	}
	return tokens
}
