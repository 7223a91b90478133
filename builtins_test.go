package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBuiltins_RegistersCommentAndPersonas(t *testing.T) {
	e := MustNew()
	for _, name := range []string{"//", "comment", "user", "bot", "char", "group", "charifnotgroup"} {
		assert.True(t, e.HasDefinition(name), "expected builtin %q to be registered", name)
	}
}

func TestPersonaDefinitions_NilEnvReturnsEmpty(t *testing.T) {
	e := MustNew()
	assert.Equal(t, "", e.Evaluate("{{user}}", nil))
	assert.Equal(t, "", e.Evaluate("{{charifnotgroup}}", nil))
}

func TestCommentBuiltin_AcceptsAnyArguments(t *testing.T) {
	e := MustNew()
	def, ok := e.registry.GetMacro("comment")
	require.True(t, ok)
	outcome := def.Handler(HandlerContext{Name: "comment", List: []string{"a", "b", "c"}})
	assert.True(t, outcome.IsValue())
	assert.Equal(t, "", outcome.Value())
}
