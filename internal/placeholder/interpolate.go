package placeholder

import "strings"

// Interpolate performs the simpler config-string substitution mode. It
// understands `${name}` and `${name|default}` only; no filter chains. A
// variable that is absent or holds an empty string falls back to the
// default. Unlike the token mode, `$` followed by any character other than
// `{` emits just that character, so `$$` yields a single `$`.
func Interpolate(expression string, ctx Context) (string, error) {
	var out strings.Builder
	rs := []rune(expression)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '$' {
			out.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return "", ErrTrailingDollar
		}
		if rs[i] != '{' {
			out.WriteRune(rs[i])
			continue
		}
		end := i + 1
		for end < len(rs) && rs[end] != '}' {
			end++
		}
		if end >= len(rs) {
			return "", ErrUnterminatedPlaceholder
		}
		name, def, _ := strings.Cut(string(rs[i+1:end]), "|")
		value, _ := ctx.Lookup(name)
		if value == "" {
			value = def
		}
		out.WriteString(value)
		i = end
	}
	return out.String(), nil
}
