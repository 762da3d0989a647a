package placeholder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse failures are fatal configuration errors; the sentinel values below
// allow callers to classify them with errors.Is.
var (
	// ErrUnterminatedPlaceholder reports a `${` with no closing `}`.
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	// ErrTrailingDollar reports a `$` at the very end of the expression.
	ErrTrailingDollar = errors.New("unescaped $ at end of expression")
	// ErrUnknownFilter reports a filter name outside def/max/align.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidFilterArgument reports a malformed filter argument.
	ErrInvalidFilterArgument = errors.New("invalid filter argument")
	// ErrInvalidAlignSpec reports a malformed align filter spec.
	ErrInvalidAlignSpec = errors.New("invalid align spec")
)

// Parse tokenizes a template into literals and variable references. It is a
// pure function: the same expression always yields the same tokens, and
// callers may cache and share the result freely.
func Parse(expression string) ([]Token, error) {
	var tokens []Token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Literal{Text: lit.String()})
			lit.Reset()
		}
	}

	rs := []rune(expression)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '$' {
			lit.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return nil, ErrTrailingDollar
		}
		if rs[i] != '{' {
			// Token mode keeps both the dollar and the next character.
			lit.WriteRune('$')
			lit.WriteRune(rs[i])
			continue
		}
		end := i + 1
		for end < len(rs) && rs[end] != '}' {
			end++
		}
		if end >= len(rs) {
			return nil, ErrUnterminatedPlaceholder
		}
		ref, err := parseRef(string(rs[i+1 : end]))
		if err != nil {
			return nil, err
		}
		flush()
		tokens = append(tokens, ref)
		i = end
	}
	flush()
	return tokens, nil
}

// parseRef splits the placeholder body on `|` into a variable name and its
// filter chunks. The first invalid chunk aborts the parse.
func parseRef(body string) (VarRef, error) {
	chunks := strings.Split(body, "|")
	ref := VarRef{Name: chunks[0]}
	for _, chunk := range chunks[1:] {
		filter, err := parseFilter(chunk)
		if err != nil {
			return VarRef{}, fmt.Errorf("variable %q: %w", ref.Name, err)
		}
		ref.Filters = append(ref.Filters, filter)
	}
	return ref, nil
}

func parseFilter(chunk string) (Filter, error) {
	kind, args, _ := strings.Cut(chunk, ":")
	switch kind {
	case "def":
		return DefaultValue{Replacement: args}, nil
	case "max":
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: max wants a non-negative integer, got %q", ErrInvalidFilterArgument, args)
		}
		return MaxLength{N: n}, nil
	case "align":
		return parseAlign(args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, kind)
	}
}

// parseAlign reads `[pad]<dir><width>` where dir is one of `<`, `>`, `^`.
func parseAlign(spec string) (Filter, error) {
	rs := []rune(spec)
	pad := ' '
	dirAt := -1
	switch {
	case len(rs) > 0 && isAlignDir(rs[0]):
		dirAt = 0
	case len(rs) > 1 && isAlignDir(rs[1]):
		pad = rs[0]
		dirAt = 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlignSpec, spec)
	}
	width, err := strconv.Atoi(string(rs[dirAt+1:]))
	if err != nil || width < 0 {
		return nil, fmt.Errorf("%w: %q has no valid width", ErrInvalidAlignSpec, spec)
	}
	var dir AlignDir
	switch rs[dirAt] {
	case '<':
		dir = AlignLeft
	case '>':
		dir = AlignRight
	case '^':
		dir = AlignCenter
	}
	return Align{Dir: dir, Pad: pad, Width: width}, nil
}

func isAlignDir(r rune) bool {
	return r == '<' || r == '>' || r == '^'
}
