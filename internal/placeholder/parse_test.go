package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteralOnly(t *testing.T) {
	tokens, err := Parse("plain text, no placeholders")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Literal{Text: "plain text, no placeholders"}, tokens[0])
}

func TestParseEmpty(t *testing.T) {
	tokens, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestParseVariable(t *testing.T) {
	tokens, err := Parse("cpu: ${cpu.percent}%")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Literal{Text: "cpu: "}, tokens[0])
	assert.Equal(t, VarRef{Name: "cpu.percent"}, tokens[1])
	assert.Equal(t, Literal{Text: "%"}, tokens[2])
}

func TestParseDollarEscapes(t *testing.T) {
	// Token mode keeps both characters of `$x`.
	tokens, err := Parse("a $$ b $c")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Literal{Text: "a $$ b $c"}, tokens[0])
}

func TestParseFilterChain(t *testing.T) {
	tokens, err := Parse("${title|def:n/a|max:10|align:-<12}")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	ref, ok := tokens[0].(VarRef)
	require.True(t, ok)
	assert.Equal(t, "title", ref.Name)
	require.Len(t, ref.Filters, 3)
	assert.Equal(t, DefaultValue{Replacement: "n/a"}, ref.Filters[0])
	assert.Equal(t, MaxLength{N: 10}, ref.Filters[1])
	assert.Equal(t, Align{Dir: AlignLeft, Pad: '-', Width: 12}, ref.Filters[2])
}

func TestParseAlignSpecs(t *testing.T) {
	cases := []struct {
		spec string
		want Align
	}{
		{"<10", Align{Dir: AlignLeft, Pad: ' ', Width: 10}},
		{">7", Align{Dir: AlignRight, Pad: ' ', Width: 7}},
		{"^9", Align{Dir: AlignCenter, Pad: ' ', Width: 9}},
		{"0>4", Align{Dir: AlignRight, Pad: '0', Width: 4}},
		{".^5", Align{Dir: AlignCenter, Pad: '.', Width: 5}},
	}
	for _, c := range cases {
		t.Run(c.spec, func(t *testing.T) {
			tokens, err := Parse("${v|align:" + c.spec + "}")
			require.NoError(t, err)
			ref := tokens[0].(VarRef)
			assert.Equal(t, c.want, ref.Filters[0])
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want error
	}{
		{"unterminated", "a ${foo", ErrUnterminatedPlaceholder},
		{"trailing dollar", "price: 10$", ErrTrailingDollar},
		{"unknown filter", "${v|upper}", ErrUnknownFilter},
		{"max not a number", "${v|max:abc}", ErrInvalidFilterArgument},
		{"max negative", "${v|max:-1}", ErrInvalidFilterArgument},
		{"align empty", "${v|align:}", ErrInvalidAlignSpec},
		{"align no dir", "${v|align:10}", ErrInvalidAlignSpec},
		{"align bad width", "${v|align:<x}", ErrInvalidAlignSpec},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestParseFailFastOnFirstBadFilter(t *testing.T) {
	_, err := Parse("${v|bogus|max:3}")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
