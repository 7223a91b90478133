package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(src string) *Document {
	tokens := NewLexer(src, nil).Tokenize()
	return NewParser(tokens, nil).Parse()
}

func TestParser_PlainTextOnly(t *testing.T) {
	doc := parseSource("just text")
	require.Len(t, doc.Children, 1)
	pt, ok := doc.Children[0].(*Plaintext)
	require.True(t, ok)
	assert.Equal(t, "just text", pt.Content)
}

func TestParser_SimpleInvocationNoArgs(t *testing.T) {
	doc := parseSource("{{user}}")
	require.Len(t, doc.Children, 1)
	inv, ok := doc.Children[0].(*Invocation)
	require.True(t, ok)
	assert.Equal(t, "user", inv.Name)
	assert.Empty(t, inv.Args)
	assert.False(t, inv.Malformed())
	assert.False(t, inv.LegacyForm)
}

func TestParser_StandardArgsForm(t *testing.T) {
	doc := parseSource("{{roll::2::d6}}")
	inv := doc.Children[0].(*Invocation)
	require.Len(t, inv.Args, 2)
	assert.False(t, inv.LegacyForm)
	arg0 := inv.Args[0].Children[0].(*Plaintext)
	assert.Equal(t, "2", arg0.Content)
	arg1 := inv.Args[1].Children[0].(*Plaintext)
	assert.Equal(t, "d6", arg1.Content)
}

func TestParser_LegacyColonForm(t *testing.T) {
	doc := parseSource("{{roll:2d6}}")
	inv := doc.Children[0].(*Invocation)
	require.True(t, inv.LegacyForm)
	require.Len(t, inv.Args, 1)
	arg := inv.Args[0].Children[0].(*Plaintext)
	assert.Equal(t, "2d6", arg.Content)
}

func TestParser_LegacyWhitespaceForm(t *testing.T) {
	doc := parseSource("{{roll 2d6}}")
	inv := doc.Children[0].(*Invocation)
	require.True(t, inv.LegacyForm)
	require.Len(t, inv.Args, 1)
	arg := inv.Args[0].Children[0].(*Plaintext)
	assert.Equal(t, "2d6", arg.Content)
}

func TestParser_LegacyFormGluedToNestedInvocation(t *testing.T) {
	doc := parseSource("{{name{{inner}}}}")
	inv := doc.Children[0].(*Invocation)
	require.True(t, inv.LegacyForm)
	require.Len(t, inv.Args, 1)
	require.Len(t, inv.Args[0].Children, 1)
	nested, ok := inv.Args[0].Children[0].(*Invocation)
	require.True(t, ok)
	assert.Equal(t, "inner", nested.Name)
}

func TestParser_UnterminatedInvocationIsMalformed(t *testing.T) {
	doc := parseSource("{{user")
	inv := doc.Children[0].(*Invocation)
	assert.True(t, inv.Malformed())
	assert.True(t, inv.Close.Synthetic)
}

func TestParser_NestedInvocationInArgument(t *testing.T) {
	doc := parseSource("{{outer::{{inner}}}}")
	outer := doc.Children[0].(*Invocation)
	require.Len(t, outer.Args, 1)
	require.Len(t, outer.Args[0].Children, 1)
	inner, ok := outer.Args[0].Children[0].(*Invocation)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name)
}

func TestParser_RangeCoversWholeInvocation(t *testing.T) {
	src := "before {{user}} after"
	doc := parseSource(src)
	require.Len(t, doc.Children, 3)
	inv := doc.Children[1].(*Invocation)
	assert.Equal(t, "{{user}}", src[inv.Range.Start:inv.Range.End])
}

func TestParser_MultipleSiblingInvocations(t *testing.T) {
	doc := parseSource("{{a}}-{{b}}")
	require.Len(t, doc.Children, 3)
	assert.Equal(t, "a", doc.Children[0].(*Invocation).Name)
	assert.Equal(t, "-", doc.Children[1].(*Plaintext).Content)
	assert.Equal(t, "b", doc.Children[2].(*Invocation).Name)
}
