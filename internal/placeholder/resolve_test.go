package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLiteralRoundTrip(t *testing.T) {
	for _, template := range []string{
		"",
		"no placeholders here",
		"100% plain } text {",
	} {
		tokens, err := Parse(template)
		require.NoError(t, err)
		out, err := Resolve(tokens, MapContext{})
		require.NoError(t, err)
		assert.Equal(t, template, out)
	}
}

func TestResolveTokenModeFixture(t *testing.T) {
	vars := MapContext{"foo": "hello", "bar": "world", "baz": "unused"}
	tokens, err := Parse("<test> ${foo} $$ ${bar}, (${not_found}) ${missing|def:default} </test>")
	require.NoError(t, err)
	out, err := Resolve(tokens, vars)
	require.NoError(t, err)
	// Token mode keeps `$$` as-is; missing variables degrade to "".
	assert.Equal(t, "<test> hello $$ world, () default </test>", out)
}

func TestResolveFilterChainOrder(t *testing.T) {
	// def runs before max, so the replacement gets truncated too.
	tokens := MustParse("${v|def:a very long fallback|max:5}")
	out, err := Resolve(tokens, MapContext{})
	require.NoError(t, err)
	assert.Equal(t, "a ...", out)

	// Reversed, max sees the empty string and def replaces it afterwards.
	tokens = MustParse("${v|max:5|def:a very long fallback}")
	out, err = Resolve(tokens, MapContext{})
	require.NoError(t, err)
	assert.Equal(t, "a very long fallback", out)
}

func TestResolveConcurrentReaders(t *testing.T) {
	tokens := MustParse("${a} and ${b|def:x}")
	vars := MapContext{"a": "1"}
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				out, err := Resolve(tokens, vars)
				assert.NoError(t, err)
				assert.Equal(t, "1 and x", out)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestInterpolateFixture(t *testing.T) {
	vars := MapContext{"foo": "hello", "bar": "world", "baz": "unused"}
	out, err := Interpolate("<test> ${foo} $$ ${bar}, (${not_found}) ${default|default} </test>", vars)
	require.NoError(t, err)
	// Interpolation mode collapses `$$` to `$`.
	assert.Equal(t, "<test> hello $ world, () default </test>", out)
}

func TestInterpolateEmptyValueFallsBack(t *testing.T) {
	out, err := Interpolate("${v|fallback}", MapContext{"v": ""})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	out, err = Interpolate("${v|fallback}", MapContext{"v": "set"})
	require.NoError(t, err)
	assert.Equal(t, "set", out)
}

func TestInterpolateErrors(t *testing.T) {
	_, err := Interpolate("broken ${oops", MapContext{})
	assert.ErrorIs(t, err, ErrUnterminatedPlaceholder)

	_, err = Interpolate("ends with $", MapContext{})
	assert.ErrorIs(t, err, ErrTrailingDollar)
}
